package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/adapter/queue"
	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/ports"
)

const statusKeyPrefix = "device-status:"

// StatusRelay keeps the last pushed status of each device in the cache.
// The voice pipeline never reads it.
type StatusRelay struct {
	mq      queue.MessageQueue
	cache   ports.Cache
	subject string
	ttl     time.Duration
	notify  func(status domain.DeviceStatus, payload []byte)
	log     *zap.Logger
}

func NewStatusRelay(mq queue.MessageQueue, cache ports.Cache, subject string, ttl time.Duration, log *zap.Logger) *StatusRelay {
	return &StatusRelay{
		mq:      mq,
		cache:   cache,
		subject: subject,
		ttl:     ttl,
		log:     log,
	}
}

// OnStatus registers fn to receive every stored status with its JSON form.
// It must be called before Start.
func (r *StatusRelay) OnStatus(fn func(status domain.DeviceStatus, payload []byte)) {
	r.notify = fn
}

func (r *StatusRelay) Start() error {
	if err := r.mq.Subscribe(r.subject, r.handle); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.subject, err)
	}
	r.log.Info("Device status relay started", zap.String("subject", r.subject))
	return nil
}

func (r *StatusRelay) handle(subject string, data []byte) error {
	var status domain.DeviceStatus
	if err := json.Unmarshal(data, &status); err != nil {
		r.log.Warn("Dropping malformed device status", zap.String("subject", subject), zap.Error(err))
		return err
	}
	if status.RoomID == "" {
		status.RoomID = roomFromSubject(subject)
	}
	if status.RoomID == "" || status.DeviceID == "" {
		return fmt.Errorf("device status on %s lacks room or device id", subject)
	}
	if status.At.IsZero() {
		status.At = time.Now().UTC()
	}

	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.cache.Set(ctx, statusKey(status.RoomID, status.DeviceID), string(payload), r.ttl); err != nil {
		r.log.Error("Failed to store device status", zap.Error(err))
		return err
	}
	if r.notify != nil {
		r.notify(status, payload)
	}
	return nil
}

// Latest returns the last status seen for a device.
func (r *StatusRelay) Latest(ctx context.Context, roomID, deviceID string) (domain.DeviceStatus, bool, error) {
	raw, err := r.cache.Get(ctx, statusKey(roomID, deviceID))
	if errors.Is(err, ports.ErrCacheMiss) {
		return domain.DeviceStatus{}, false, nil
	}
	if err != nil {
		return domain.DeviceStatus{}, false, err
	}
	var status domain.DeviceStatus
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		return domain.DeviceStatus{}, false, err
	}
	return status, true, nil
}

func statusKey(roomID, deviceID string) string {
	return statusKeyPrefix + roomID + ":" + deviceID
}

// roomFromSubject extracts <room> from rooms.<room>.status.
func roomFromSubject(subject string) string {
	parts := strings.Split(subject, ".")
	if len(parts) == 3 && parts[0] == "rooms" {
		return parts[1]
	}
	return ""
}
