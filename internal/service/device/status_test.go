package device

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/mocks"
)

func TestStatusRelay_StoresLatest(t *testing.T) {
	mq := mocks.NewMockMessageQueue()
	cache := mocks.NewMockCache()
	relay := NewStatusRelay(mq, cache, "rooms.*.status", time.Minute, zap.NewNop())

	if err := relay.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	errs := mq.Deliver("rooms.*.status", "rooms.101.status", []byte(`{"device_id":"t_11_l1","action":"onoff","value":true}`))
	if len(errs) != 0 {
		t.Fatalf("handler returned errors: %v", errs)
	}
	mq.Deliver("rooms.*.status", "rooms.101.status", []byte(`{"device_id":"t_11_l1","action":"onoff","value":false}`))

	status, ok, err := relay.Latest(context.Background(), "101", "t_11_l1")
	if err != nil || !ok {
		t.Fatalf("expected a stored status, got ok=%v err=%v", ok, err)
	}
	if status.RoomID != "101" || status.Value != false {
		t.Errorf("expected latest status for room 101 with value=false, got %+v", status)
	}
}

func TestStatusRelay_RejectsMalformed(t *testing.T) {
	mq := mocks.NewMockMessageQueue()
	relay := NewStatusRelay(mq, mocks.NewMockCache(), "rooms.*.status", time.Minute, zap.NewNop())
	relay.Start()

	if errs := mq.Deliver("rooms.*.status", "rooms.101.status", []byte(`not json`)); len(errs) != 1 {
		t.Errorf("expected one handler error, got %d", len(errs))
	}
	if errs := mq.Deliver("rooms.*.status", "lobby", []byte(`{"device_id":"x"}`)); len(errs) != 1 {
		t.Errorf("expected missing room to be rejected, got %d errors", len(errs))
	}

	if _, ok, _ := relay.Latest(context.Background(), "101", "x"); ok {
		t.Error("expected no stored status")
	}
}

func TestStatusRelay_NotifiesListener(t *testing.T) {
	mq := mocks.NewMockMessageQueue()
	relay := NewStatusRelay(mq, mocks.NewMockCache(), "rooms.*.status", time.Minute, zap.NewNop())

	var rooms []string
	relay.OnStatus(func(status domain.DeviceStatus, payload []byte) {
		rooms = append(rooms, status.RoomID)
	})
	relay.Start()

	mq.Deliver("rooms.*.status", "rooms.204.status", []byte(`{"device_id":"room_ac","action":"onoff","value":true}`))
	mq.Deliver("rooms.*.status", "rooms.204.status", []byte(`garbage`))

	if len(rooms) != 1 || rooms[0] != "204" {
		t.Errorf("expected one notification for room 204, got %v", rooms)
	}
}
