package intent

import (
	"strings"

	"github.com/seu-repo/voice-concierge/internal/domain"
)

// Intent names produced by the agent.
const (
	ControlScene          = "ControlScene"
	ControlLight          = "ControlLight"
	ControlAirConditioner = "ControlAirConditioner"
	ControlCurtain        = "ControlCurtain"
)

// Action is what the pipeline does with a detected intent. It is one of
// SceneAction, DeviceAction or NoAction.
type Action interface {
	action()
}

type SceneAction struct {
	Command string
}

type DeviceAction struct {
	Location  string
	Device    string
	Operation string
}

type NoAction struct{}

func (SceneAction) action()  {}
func (DeviceAction) action() {}
func (NoAction) action()     {}

// Dispatch maps an intent and its slots onto an Action. workingText is the
// scene command when the intent carries no scene slot.
func Dispatch(in domain.Intent, workingText string) Action {
	switch in.Name {
	case ControlScene:
		command := strings.TrimSpace(in.StringParam("scene"))
		if command == "" {
			command = strings.TrimSpace(workingText)
		}
		return SceneAction{Command: command}
	case ControlLight, ControlAirConditioner, ControlCurtain:
		return DeviceAction{
			Location:  slot(in, "location"),
			Device:    slot(in, "device"),
			Operation: slot(in, "operation"),
		}
	default:
		return NoAction{}
	}
}

func slot(in domain.Intent, key string) string {
	return strings.ToLower(strings.TrimSpace(in.StringParam(key)))
}
