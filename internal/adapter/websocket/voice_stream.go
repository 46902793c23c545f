package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/service/language"
	"github.com/seu-repo/voice-concierge/internal/service/voice"
)

// Pipeline runs one guest command end to end.
type Pipeline interface {
	Run(ctx context.Context, in voice.Input) (*domain.PipelineResult, error)
}

type VoiceStreamHandler struct {
	pipeline Pipeline
	logger   *zap.Logger
}

func NewVoiceStreamHandler(pipeline Pipeline, logger *zap.Logger) *VoiceStreamHandler {
	return &VoiceStreamHandler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// textFrame is the JSON a client sends as a text message: either a typed
// command or a language preference for the following audio frames.
type textFrame struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// HandleVoiceStream runs one pipeline per binary frame (an utterance) and
// replies with the PipelineResult as JSON. The connection keeps one session.
func (h *VoiceStreamHandler) HandleVoiceStream(c *websocket.Conn) {
	sessionID := c.Query("session_id")
	room, _ := c.Locals("room_id").(string)
	if room == "" {
		room = c.Query("room")
	}
	preferred, _ := language.FromCode(c.Query("language"))

	log := h.logger.With(zap.String("room_id", room))
	ctx := context.Background()

	for {
		messageType, data, err := c.ReadMessage()
		if err != nil {
			log.Debug("Voice stream closed", zap.Error(err))
			return
		}

		in := voice.Input{SessionID: sessionID, RoomID: room, Preferred: preferred}
		switch messageType {
		case websocket.BinaryMessage:
			in.Audio = data
		case websocket.TextMessage:
			var frame textFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				h.writeError(c, "invalid text frame")
				continue
			}
			if lang, ok := language.FromCode(frame.Language); ok {
				preferred = lang
				in.Preferred = lang
			}
			if frame.Text == "" {
				continue
			}
			in.Text, in.IsText = frame.Text, true
		default:
			continue
		}

		result, err := h.pipeline.Run(ctx, in)
		if err != nil {
			log.Error("Voice stream command failed", zap.Error(err))
			msg := "failed to process voice command"
			if errors.Is(err, domain.ErrSynthesisFailed) {
				msg = "failed to synthesize reply"
			}
			if !h.writeError(c, msg) {
				return
			}
			continue
		}
		// keep the first generated session for the rest of the connection
		sessionID = result.SessionID

		payload, err := json.Marshal(result)
		if err != nil {
			log.Error("Failed to encode pipeline result", zap.Error(err))
			continue
		}
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Warn("Failed to send voice stream reply", zap.Error(err))
			return
		}
	}
}

func (h *VoiceStreamHandler) writeError(c *websocket.Conn, msg string) bool {
	payload, _ := json.Marshal(fiber.Map{"error": msg})
	return c.WriteMessage(websocket.TextMessage, payload) == nil
}

// UpgradeOnly rejects plain HTTP requests on websocket routes.
func UpgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
