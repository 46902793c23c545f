package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/ports"
)

type SpeakHandler struct {
	synthesizer ports.SynthesisProvider
	log         *zap.Logger
}

func NewSpeakHandler(synthesizer ports.SynthesisProvider, log *zap.Logger) *SpeakHandler {
	return &SpeakHandler{
		synthesizer: synthesizer,
		log:         log,
	}
}

type SpeakRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Speak synthesizes arbitrary text and returns MP3 audio.
func (h *SpeakHandler) Speak(c *fiber.Ctx) error {
	var req SpeakRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing text"})
	}

	locale := domain.WorkingLanguage.Locale()
	if lang := preferredLanguage(req.Language); lang != "" {
		locale = lang.Locale()
	}

	audio, err := h.synthesizer.Synthesize(c.UserContext(), req.Text, locale)
	if err != nil {
		h.log.Error("Speech synthesis failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to synthesize speech"})
	}
	c.Set(fiber.HeaderContentType, "audio/mpeg")
	return c.Send(audio)
}
