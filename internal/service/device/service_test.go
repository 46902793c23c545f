package device

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestOperate_GatewayPath(t *testing.T) {
	// Arrange
	var gotPath string
	var gotBody interface{}
	gateway := &mocks.MockGateway{
		ControlFunc: func(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
			gotPath, gotBody = path, body
			return json.RawMessage(`{"ok":true}`), nil
		},
	}
	svc := NewService(gateway, NewSimulator(0, zap.NewNop()), newTestLogger())

	// Act
	_, err := svc.Operate(context.Background(), RoomLightPath, true)

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gotPath != RoomLightPath {
		t.Errorf("Expected gateway path %s, got %s", RoomLightPath, gotPath)
	}
	body, ok := gotBody.(map[string]interface{})
	if !ok || body["value"] != true {
		t.Errorf("Expected body {value:true}, got %#v", gotBody)
	}
}

func TestOperate_SimulatedPathSkipsGateway(t *testing.T) {
	gateway := &mocks.MockGateway{
		ControlFunc: func(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
			t.Errorf("gateway must not be called for %s", path)
			return nil, nil
		},
	}
	svc := NewService(gateway, NewSimulator(0, zap.NewNop()), zap.NewNop())

	raw, err := svc.Operate(context.Background(), DeskLightPath, true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var resp SimulatedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("Failed to decode simulated response: %v", err)
	}
	if resp.DeviceID != "desk_light" || resp.State != "on" {
		t.Errorf("Unexpected simulated response %+v", resp)
	}
}

func TestOperate_GatewayError(t *testing.T) {
	gateway := &mocks.MockGateway{
		ControlFunc: func(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewService(gateway, nil, zap.NewNop())

	_, err := svc.Operate(context.Background(), BathroomLightPath, false)
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Expected wrapped gateway error, got %v", err)
	}
}

func TestSimulator_Curtains(t *testing.T) {
	sim := NewSimulator(0, zap.NewNop())

	raw, err := sim.Control(context.Background(), RoomCurtainsPath, map[string]interface{}{"value": 50})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var resp SimulatedResponse
	json.Unmarshal(raw, &resp)
	if resp.Position == nil || *resp.Position != 50 {
		t.Errorf("Expected position 50, got %+v", resp.Position)
	}
	if resp.Message != "Curtains set to 50% position" {
		t.Errorf("Unexpected message '%s'", resp.Message)
	}
}

func TestSimulator_AirConditionerMode(t *testing.T) {
	sim := NewSimulator(0, zap.NewNop())

	raw, _ := sim.Control(context.Background(), RoomACStatePath, map[string]interface{}{
		"value": map[string]interface{}{"mode": "cool", "temperature": 24},
	})
	var resp SimulatedResponse
	json.Unmarshal(raw, &resp)
	if resp.Message != "Air conditioner set to cool mode at 24°C" {
		t.Errorf("Unexpected message '%s'", resp.Message)
	}
}

func TestSimulator_RespectsContext(t *testing.T) {
	sim := NewSimulator(time.Second, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := sim.Control(ctx, DeskLightPath, map[string]interface{}{"value": true}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
