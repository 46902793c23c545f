package domain

import "time"

type DeviceAction struct {
	DeviceID string      `json:"deviceId"`
	Action   string      `json:"action"`
	Value    interface{} `json:"value"`
	DelayMS  int         `json:"delay,omitempty"`
}

// Delay is the wait before this action is issued.
func (a DeviceAction) Delay() time.Duration {
	return time.Duration(a.DelayMS) * time.Millisecond
}

type Scene struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Devices     []DeviceAction `json:"devices"`
}

type DeviceActionResult struct {
	DeviceID string      `json:"deviceId"`
	Action   string      `json:"action"`
	Value    interface{} `json:"value"`
	Success  bool        `json:"success"`
	Error    string      `json:"error,omitempty"`
}

type SceneResult struct {
	Success         bool                 `json:"success"`
	SceneID         string               `json:"sceneId"`
	SceneName       string               `json:"sceneName"`
	ExecutedActions []DeviceActionResult `json:"executedActions"`
	Message         string               `json:"message"`
	Error           string               `json:"error,omitempty"`
}

// SceneEvent is published after every scene execution.
type SceneEvent struct {
	SceneID    string    `json:"scene_id"`
	RoomID     string    `json:"room_id"`
	Success    bool      `json:"success"`
	Failed     int       `json:"failed"`
	ExecutedAt time.Time `json:"executed_at"`
}

// DeviceStatus is a status message received on the push channel.
type DeviceStatus struct {
	RoomID   string      `json:"room_id"`
	DeviceID string      `json:"device_id"`
	Action   string      `json:"action"`
	Value    interface{} `json:"value"`
	At       time.Time   `json:"at"`
}
