package device

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/ports"
)

type Service struct {
	gateway   ports.DeviceGateway
	simulator *Simulator
	log       *zap.Logger
}

// NewService routes simulated paths to simulator and everything else to gateway.
func NewService(gateway ports.DeviceGateway, simulator *Simulator, log *zap.Logger) *Service {
	return &Service{
		gateway:   gateway,
		simulator: simulator,
		log:       log,
	}
}

var _ ports.DeviceService = (*Service)(nil)

// Operate sends {"value": value} to the device behind controlPath.
func (s *Service) Operate(ctx context.Context, controlPath string, value interface{}) (json.RawMessage, error) {
	start := time.Now()
	body := map[string]interface{}{"value": value}

	var (
		result json.RawMessage
		err    error
	)
	if IsSimulated(controlPath) && s.simulator != nil {
		result, err = s.simulator.Control(ctx, controlPath, body)
	} else {
		result, err = s.gateway.ControlDevice(ctx, controlPath, body)
	}

	if err != nil {
		s.log.Error("Device operation failed",
			zap.String("path", controlPath),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("operate %s: %w", controlPath, err)
	}

	s.log.Info("Device operation completed",
		zap.String("path", controlPath),
		zap.Any("value", value),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (s *Service) ListDevices(ctx context.Context, roomID string) (json.RawMessage, error) {
	return s.gateway.QueryDevices(ctx, roomID)
}
