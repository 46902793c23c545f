package scene

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/adapter/queue"
	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/observability/telemetry"
	"github.com/seu-repo/voice-concierge/internal/ports"
)

// Options configures the scene engine.
type Options struct {
	DefaultRoom  string
	EventSubject string
}

// Service executes scenes action by action. Concurrent executions for the same
// room are not serialized; the last command to reach a device wins.
type Service struct {
	scenes      []domain.Scene
	byID        map[string]domain.Scene
	devices     ports.DeviceOperator
	mq          queue.MessageQueue
	defaultRoom string
	subject     string
	wait        func(ctx context.Context, d time.Duration) error
	log         *zap.Logger
}

// NewService builds the engine over scenes. mq may be nil to disable events.
func NewService(scenes []domain.Scene, devices ports.DeviceOperator, mq queue.MessageQueue, opts Options, log *zap.Logger) *Service {
	byID := make(map[string]domain.Scene, len(scenes))
	for _, s := range scenes {
		byID[s.ID] = s
	}
	if opts.DefaultRoom == "" {
		opts.DefaultRoom = "101"
	}
	return &Service{
		scenes:      scenes,
		byID:        byID,
		devices:     devices,
		mq:          mq,
		defaultRoom: opts.DefaultRoom,
		subject:     opts.EventSubject,
		wait:        sleep,
		log:         log,
	}
}

var _ ports.SceneService = (*Service)(nil)

func (s *Service) Scenes() []domain.Scene {
	out := make([]domain.Scene, len(s.scenes))
	copy(out, s.scenes)
	return out
}

func (s *Service) Scene(id string) (domain.Scene, bool) {
	sc, ok := s.byID[id]
	return sc, ok
}

// scene keywords, checked in order after id and name matching
var sceneKeywords = []struct {
	sceneID  string
	keywords []string
}{
	{"sleep", []string{"sleep", "睡眠"}},
	{"relax", []string{"relax", "放松", "休息"}},
	{"wakeup", []string{"wake", "wakeup", "唤醒", "起床"}},
	{"welcome", []string{"welcome", "欢迎", "迎宾"}},
	{"away", []string{"away", "离开", "外出"}},
	{"work", []string{"work", "工作"}},
}

// FindByVoiceCommand matches a spoken scene command by id, then by name, then
// by keyword.
func (s *Service) FindByVoiceCommand(command string) (domain.Scene, bool) {
	cmd := strings.ToLower(strings.TrimSpace(command))
	if cmd == "" {
		return domain.Scene{}, false
	}

	for _, sc := range s.scenes {
		if strings.ToLower(sc.ID) == cmd {
			return sc, true
		}
	}
	for _, sc := range s.scenes {
		if strings.Contains(strings.ToLower(sc.Name), cmd) {
			return sc, true
		}
	}
	for _, entry := range sceneKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(cmd, kw) {
				if sc, ok := s.byID[entry.sceneID]; ok {
					return sc, true
				}
			}
		}
	}
	return domain.Scene{}, false
}

// ExecuteScene attempts every action of the scene in order. A failed action is
// recorded and never stops the rest.
func (s *Service) ExecuteScene(ctx context.Context, sceneID, roomID string) domain.SceneResult {
	if roomID == "" {
		roomID = s.defaultRoom
	}
	log := s.log.With(zap.String("scene_id", sceneID), zap.String("room_id", roomID))

	sc, ok := s.byID[sceneID]
	if !ok {
		msg := "Scene not found: " + sceneID
		log.Warn("Scene not found")
		return domain.SceneResult{
			Success:         false,
			SceneID:         sceneID,
			SceneName:       "Unknown",
			ExecutedActions: []domain.DeviceActionResult{},
			Message:         msg,
			Error:           msg,
		}
	}

	log.Info("Executing scene", zap.Int("actions", len(sc.Devices)))
	start := time.Now()

	results := make([]domain.DeviceActionResult, 0, len(sc.Devices))
	success := true
	for _, action := range sc.Devices {
		r := s.executeAction(ctx, action)
		if !r.Success {
			success = false
			telemetry.SceneActionsTotal.WithLabelValues(sc.ID, "failed").Inc()
			log.Warn("Scene action failed",
				zap.String("device_id", action.DeviceID),
				zap.String("action", action.Action),
				zap.String("error", r.Error),
			)
		} else {
			telemetry.SceneActionsTotal.WithLabelValues(sc.ID, "success").Inc()
		}
		results = append(results, r)
	}

	result := domain.SceneResult{
		Success:         success,
		SceneID:         sc.ID,
		SceneName:       sc.Name,
		ExecutedActions: results,
	}
	if success {
		result.Message = "Successfully executed " + sc.Name
	} else {
		result.Message = "Partially executed " + sc.Name + " with some errors"
	}

	log.Info("Scene execution completed",
		zap.Bool("success", success),
		zap.Duration("duration", time.Since(start)),
	)
	s.publish(sc.ID, roomID, results, success)
	return result
}

func (s *Service) executeAction(ctx context.Context, action domain.DeviceAction) domain.DeviceActionResult {
	result := domain.DeviceActionResult{
		DeviceID: action.DeviceID,
		Action:   action.Action,
		Value:    action.Value,
	}

	if d := action.Delay(); d > 0 {
		if err := s.wait(ctx, d); err != nil {
			result.Error = err.Error()
			return result
		}
	}

	path, ok := controlPath(action.DeviceID, action.Action)
	if !ok {
		result.Error = fmt.Sprintf("No control URL found for device %s action %s", action.DeviceID, action.Action)
		return result
	}

	if _, err := s.devices.Operate(ctx, path, action.Value); err != nil {
		result.Error = err.Error()
		return result
	}
	result.Success = true
	return result
}

func (s *Service) publish(sceneID, roomID string, results []domain.DeviceActionResult, success bool) {
	if s.mq == nil || s.subject == "" {
		return
	}
	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	data, err := json.Marshal(domain.SceneEvent{
		SceneID:    sceneID,
		RoomID:     roomID,
		Success:    success,
		Failed:     failed,
		ExecutedAt: time.Now().UTC(),
	})
	if err != nil {
		return
	}
	if err := s.mq.Publish(s.subject, data); err != nil {
		s.log.Warn("Failed to publish scene event", zap.String("scene_id", sceneID), zap.Error(err))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
