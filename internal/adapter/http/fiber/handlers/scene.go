package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/voice-concierge/internal/ports"
)

type SceneHandler struct {
	scenes ports.SceneService
	log    *zap.Logger
}

func NewSceneHandler(scenes ports.SceneService, log *zap.Logger) *SceneHandler {
	return &SceneHandler{
		scenes: scenes,
		log:    log,
	}
}

func (h *SceneHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.scenes.Scenes())
}

type ExecuteSceneRequest struct {
	Room string `json:"room"`
}

func (h *SceneHandler) Execute(c *fiber.Ctx) error {
	id := c.Params("id")
	var req ExecuteSceneRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
		}
	}
	if _, ok := h.scenes.Scene(id); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Scene not found"})
	}

	result := h.scenes.ExecuteScene(c.UserContext(), id, middleware.RoomFrom(c, req.Room))
	if !result.Success {
		h.log.Warn("Scene executed with failures",
			zap.String("scene_id", id),
			zap.String("message", result.Message),
		)
		return c.Status(fiber.StatusMultiStatus).JSON(result)
	}
	return c.JSON(result)
}
