package intent

import (
	"github.com/seu-repo/voice-concierge/internal/service/device"
)

type Family string

const (
	FamilyLight          Family = "light"
	FamilyAirConditioner Family = "air_conditioner"
	FamilyCurtain        Family = "curtain"
)

// ControlConfig is the concrete command for one DeviceAction.
type ControlConfig struct {
	Family Family
	Path   string
	Value  interface{}
}

var deviceFamilies = map[string]Family{
	"light":           FamilyLight,
	"lights":          FamilyLight,
	"lamp":            FamilyLight,
	"air conditioner": FamilyAirConditioner,
	"air_conditioner": FamilyAirConditioner,
	"ac":              FamilyAirConditioner,
	"aircon":          FamilyAirConditioner,
	"curtain":         FamilyCurtain,
	"curtains":        FamilyCurtain,
}

// FamilyOf returns the device family a spoken device name belongs to.
func FamilyOf(device string) (Family, bool) {
	f, ok := deviceFamilies[device]
	return f, ok
}

// ResolveDevice maps (location, device, operation) to a control path and value.
// Unsupported combinations return false.
func ResolveDevice(a DeviceAction) (ControlConfig, bool) {
	family, ok := FamilyOf(a.Device)
	if !ok {
		return ControlConfig{}, false
	}

	var (
		path  string
		value interface{}
	)
	switch family {
	case FamilyLight:
		path, value, ok = resolveLight(a.Location, a.Operation)
	case FamilyAirConditioner:
		path, value, ok = resolveAirConditioner(a.Location, a.Operation)
	case FamilyCurtain:
		path, value, ok = resolveCurtain(a.Location, a.Operation)
	}
	if !ok {
		return ControlConfig{}, false
	}
	return ControlConfig{Family: family, Path: path, Value: value}, true
}

func resolveLight(location, operation string) (string, interface{}, bool) {
	var path string
	switch location {
	case "bathroom":
		path = device.BathroomLightPath
	case "room":
		path = device.RoomLightPath
	case "desk":
		path = device.DeskLightPath
	default:
		return "", nil, false
	}
	switch operation {
	case "on":
		return path, true, true
	case "off":
		return path, false, true
	}
	return "", nil, false
}

func resolveAirConditioner(location, operation string) (string, interface{}, bool) {
	if location != "room" && location != "bedroom" {
		return "", nil, false
	}
	switch operation {
	case "on":
		return device.RoomACStatePath, map[string]interface{}{"power": true}, true
	case "off":
		return device.RoomACStatePath, map[string]interface{}{"power": false}, true
	case "cool", "cooling":
		return device.RoomACStatePath, map[string]interface{}{"mode": "cool", "temperature": 24}, true
	case "heat", "heating":
		return device.RoomACStatePath, map[string]interface{}{"mode": "heat", "temperature": 26}, true
	}
	return "", nil, false
}

func resolveCurtain(location, operation string) (string, interface{}, bool) {
	switch location {
	case "room", "bedroom":
		switch operation {
		case "open":
			return device.RoomCurtainsPath, 100, true
		case "close":
			return device.RoomCurtainsPath, 0, true
		case "half", "halfway":
			return device.RoomCurtainsPath, 50, true
		}
	case "bathroom":
		switch operation {
		case "open":
			return device.BathroomCurtainsPath, 100, true
		case "close":
			return device.BathroomCurtainsPath, 0, true
		}
	}
	return "", nil, false
}
