package device

import "strings"

// SimulatedPrefix marks control paths served by the in-process simulator.
const SimulatedPrefix = "/simulated/"

// Gateway paths are relative to {api}/{hotelCode}/control/.
const (
	RoomLightPath     = "rooms/00-08-0c-20-00-1c/devices/d_7_expansion-relay-s04-add0/components/c3/capabilities/switch/status"
	BathroomLightPath = "rooms/00-08-0c-20-00-1c/devices/d_7_expansion-relay-s04-add0/components/c4/capabilities/switch/status"
)

const (
	DeskLightPath         = "/simulated/control/desk_light/onoff"
	RoomACStatePath       = "/simulated/control/room_ac/state"
	RoomACPowerPath       = "/simulated/control/room_ac/onoff"
	RoomACTemperaturePath = "/simulated/control/room_ac/temperature"
	RoomCurtainsPath      = "/simulated/control/room_curtains/position"
	BathroomCurtainsPath  = "/simulated/control/bathroom_curtains/position"
)

func IsSimulated(path string) bool {
	return strings.HasPrefix(path, SimulatedPrefix)
}
