package intent

import (
	"testing"

	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/service/device"
)

func TestDispatch(t *testing.T) {
	tests := []struct {
		name   string
		intent domain.Intent
		text   string
		want   Action
	}{
		{
			name:   "scene slot",
			intent: domain.Intent{Name: ControlScene, Parameters: map[string]interface{}{"scene": "sleep"}},
			text:   "activate sleep mode",
			want:   SceneAction{Command: "sleep"},
		},
		{
			name:   "scene falls back to text",
			intent: domain.Intent{Name: ControlScene},
			text:   " relax mode ",
			want:   SceneAction{Command: "relax mode"},
		},
		{
			name: "light",
			intent: domain.Intent{Name: ControlLight, Parameters: map[string]interface{}{
				"location": "Bathroom", "device": "light", "operation": "on",
			}},
			want: DeviceAction{Location: "bathroom", Device: "light", Operation: "on"},
		},
		{
			name:   "curtain with missing slots",
			intent: domain.Intent{Name: ControlCurtain, Parameters: map[string]interface{}{"operation": 3}},
			want:   DeviceAction{},
		},
		{
			name:   "unknown intent",
			intent: domain.Intent{Name: "Default Welcome Intent"},
			want:   NoAction{},
		},
		{
			name:   "empty intent",
			intent: domain.Intent{},
			want:   NoAction{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dispatch(tt.intent, tt.text); got != tt.want {
				t.Errorf("Dispatch() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestResolveDevice(t *testing.T) {
	cfg, ok := ResolveDevice(DeviceAction{Location: "bathroom", Device: "lights", Operation: "off"})
	if !ok || cfg.Path != device.BathroomLightPath || cfg.Value != false || cfg.Family != FamilyLight {
		t.Errorf("unexpected bathroom light config %+v (%v)", cfg, ok)
	}

	cfg, ok = ResolveDevice(DeviceAction{Location: "bedroom", Device: "ac", Operation: "cooling"})
	if !ok || cfg.Path != device.RoomACStatePath {
		t.Fatalf("unexpected ac config %+v (%v)", cfg, ok)
	}
	state := cfg.Value.(map[string]interface{})
	if state["mode"] != "cool" || state["temperature"] != 24 {
		t.Errorf("expected cool at 24, got %v", state)
	}

	cfg, ok = ResolveDevice(DeviceAction{Location: "room", Device: "curtains", Operation: "half"})
	if !ok || cfg.Value != 50 {
		t.Errorf("expected half-open curtains, got %+v (%v)", cfg, ok)
	}
}

func TestResolveDevice_Unsupported(t *testing.T) {
	cases := []DeviceAction{
		{Location: "kitchen", Device: "light", Operation: "on"},
		{Location: "room", Device: "light", Operation: "dim"},
		{Location: "bathroom", Device: "air conditioner", Operation: "on"},
		{Location: "bathroom", Device: "curtain", Operation: "half"},
		{Location: "room", Device: "television", Operation: "on"},
		{},
	}
	for _, c := range cases {
		if cfg, ok := ResolveDevice(c); ok {
			t.Errorf("expected no mapping for %+v, got %+v", c, cfg)
		}
	}
}
