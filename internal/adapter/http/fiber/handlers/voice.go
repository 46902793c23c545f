package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/ports"
	"github.com/seu-repo/voice-concierge/internal/service/language"
	"github.com/seu-repo/voice-concierge/internal/service/voice"
)

// Pipeline runs one guest command end to end.
type Pipeline interface {
	Run(ctx context.Context, in voice.Input) (*domain.PipelineResult, error)
}

type VoiceHandler struct {
	pipeline Pipeline
	history  ports.CommandRepository
	log      *zap.Logger
}

// NewVoiceHandler creates the voice handler. history may be nil.
func NewVoiceHandler(pipeline Pipeline, history ports.CommandRepository, log *zap.Logger) *VoiceHandler {
	return &VoiceHandler{
		pipeline: pipeline,
		history:  history,
		log:      log,
	}
}

type AudioCommandRequest struct {
	Audio     string `json:"audio"` // Base64
	SessionID string `json:"session_id"`
	Language  string `json:"language"`
	Room      string `json:"room"`
}

type TextCommandRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id"`
	Language  string `json:"language"`
	Room      string `json:"room"`
}

func (h *VoiceHandler) ProcessCommand(c *fiber.Ctx) error {
	var req AudioCommandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if req.Audio == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing audio"})
	}

	audioBytes, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid base64 audio"})
	}

	return h.run(c, voice.Input{
		Audio:     audioBytes,
		SessionID: req.SessionID,
		RoomID:    middleware.RoomFrom(c, req.Room),
		Preferred: preferredLanguage(req.Language),
	})
}

func (h *VoiceHandler) ProcessText(c *fiber.Ctx) error {
	var req TextCommandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing text"})
	}

	return h.run(c, voice.Input{
		Text:      req.Text,
		IsText:    true,
		SessionID: req.SessionID,
		RoomID:    middleware.RoomFrom(c, req.Room),
		Preferred: preferredLanguage(req.Language),
	})
}

func (h *VoiceHandler) run(c *fiber.Ctx, in voice.Input) error {
	resp, err := h.pipeline.Run(c.UserContext(), in)
	if err != nil {
		h.log.Error("Failed to process voice command", zap.Error(err))
		if errors.Is(err, domain.ErrSynthesisFailed) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to synthesize reply"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process voice command"})
	}
	return c.JSON(resp)
}

func (h *VoiceHandler) GetHistory(c *fiber.Ctx) error {
	if h.history == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "History is disabled"})
	}
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	var (
		records []domain.CommandRecord
		err     error
	)
	if sessionID := c.Query("session_id"); sessionID != "" {
		records, err = h.history.FindBySession(c.UserContext(), sessionID, limit)
	} else {
		records, err = h.history.FindRecent(c.UserContext(), limit)
	}
	if err != nil {
		h.log.Error("Failed to load command history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load history"})
	}
	if records == nil {
		records = []domain.CommandRecord{}
	}
	return c.JSON(records)
}

func preferredLanguage(code string) domain.Language {
	lang, ok := language.FromCode(code)
	if !ok {
		return ""
	}
	return lang
}
