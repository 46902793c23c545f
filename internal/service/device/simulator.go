package device

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SimulatedResponse is returned for devices that have no real gateway endpoint.
type SimulatedResponse struct {
	OK         bool        `json:"ok"`
	Timestamp  time.Time   `json:"timestamp"`
	ControlURL string      `json:"controlUrl"`
	Body       interface{} `json:"body"`
	Status     string      `json:"status"`
	Device     string      `json:"device"`
	DeviceID   string      `json:"deviceId"`
	Action     string      `json:"action"`
	State      string      `json:"state,omitempty"`
	Position   *int        `json:"position,omitempty"`
	Message    string      `json:"message"`
}

type Simulator struct {
	latency time.Duration
	log     *zap.Logger
}

// NewSimulator answers simulated control calls after latency.
func NewSimulator(latency time.Duration, log *zap.Logger) *Simulator {
	return &Simulator{latency: latency, log: log}
}

// Control handles /simulated/control/{device}/{action}.
func (s *Simulator) Control(ctx context.Context, controlPath string, body map[string]interface{}) (json.RawMessage, error) {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	parts := strings.Split(controlPath, "/")
	var deviceID, action string
	if len(parts) > 3 {
		deviceID = parts[3]
	}
	if len(parts) > 4 {
		action = parts[4]
	}
	value := body["value"]

	resp := SimulatedResponse{
		OK:         true,
		Timestamp:  time.Now().UTC(),
		ControlURL: controlPath,
		Body:       body,
		Status:     "success",
		DeviceID:   deviceID,
		Action:     action,
	}

	switch {
	case deviceID == "desk_light":
		resp.Device = "Desk Light"
		resp.State = onOff(truthy(value))
		resp.Message = "Desk light turned " + resp.State
	case deviceID == "room_ac":
		resp.Device = "Room Air Conditioner"
		resp.Message = describeAC(action, value)
	case strings.HasSuffix(deviceID, "_curtains"):
		resp.Device = "Curtains"
		pos := curtainPosition(action, value)
		resp.Position = &pos
		switch pos {
		case 100:
			resp.Message = "Curtains opened"
		case 0:
			resp.Message = "Curtains closed"
		default:
			resp.Message = fmt.Sprintf("Curtains set to %d%% position", pos)
		}
	default:
		resp.Device = "Unknown Device"
		resp.Message = "Simulated control for " + deviceID
	}

	s.log.Debug("Simulated device control",
		zap.String("path", controlPath),
		zap.String("message", resp.Message),
	)
	return json.Marshal(resp)
}

func describeAC(action string, value interface{}) string {
	switch action {
	case "onoff":
		return "Air conditioner turned " + onOff(truthy(value))
	case "temperature":
		return fmt.Sprintf("Air conditioner temperature set to %v°C", value)
	}
	state, ok := value.(map[string]interface{})
	if !ok {
		return "Air conditioner updated"
	}
	if mode, ok := state["mode"]; ok {
		return fmt.Sprintf("Air conditioner set to %v mode at %v°C", mode, state["temperature"])
	}
	if power, ok := state["power"]; ok {
		return "Air conditioner turned " + onOff(truthy(power))
	}
	return "Air conditioner updated"
}

func curtainPosition(action string, value interface{}) int {
	switch action {
	case "open":
		return 100
	case "close":
		return 0
	}
	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case map[string]interface{}:
		return curtainPosition("", v["position"])
	}
	return 0
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t == "on" || t == "true"
	}
	return false
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
