package scene

import "github.com/seu-repo/voice-concierge/internal/service/device"

type controlKey struct {
	deviceID string
	action   string
}

// controlPaths maps scene device capabilities onto control paths.
var controlPaths = map[controlKey]string{
	{"t_10_l2", "onoff"}:              device.BathroomLightPath,
	{"t_11_l1", "onoff"}:              device.RoomLightPath,
	{"desk_light", "onoff"}:           device.DeskLightPath,
	{"room_ac", "onoff"}:              device.RoomACPowerPath,
	{"room_ac", "temperature"}:        device.RoomACTemperaturePath,
	{"room_curtains", "position"}:     device.RoomCurtainsPath,
	{"bathroom_curtains", "position"}: device.BathroomCurtainsPath,
}

func controlPath(deviceID, action string) (string, bool) {
	p, ok := controlPaths[controlKey{deviceID, action}]
	return p, ok
}
