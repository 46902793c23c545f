package handlers

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/ports"
)

// StatusReader returns the last pushed status of a device.
type StatusReader interface {
	Latest(ctx context.Context, roomID, deviceID string) (domain.DeviceStatus, bool, error)
}

type DeviceHandler struct {
	devices ports.DeviceService
	status  StatusReader
	log     *zap.Logger
}

// NewDeviceHandler creates the device handler. status may be nil when the
// push channel is disabled.
func NewDeviceHandler(devices ports.DeviceService, status StatusReader, log *zap.Logger) *DeviceHandler {
	return &DeviceHandler{
		devices: devices,
		status:  status,
		log:     log,
	}
}

func (h *DeviceHandler) List(c *fiber.Ctx) error {
	room := c.Params("room")
	devices, err := h.devices.ListDevices(c.UserContext(), room)
	if err != nil {
		h.log.Error("Failed to list devices", zap.String("room", room), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(devices)
}

type ControlRequest struct {
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
}

func (h *DeviceHandler) Control(c *fiber.Ctx) error {
	var req ControlRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if req.Path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing path"})
	}

	res, err := h.devices.Operate(c.UserContext(), req.Path, req.Value)
	if err != nil {
		h.log.Error("Device control failed",
			zap.String("room", c.Params("room")),
			zap.String("path", req.Path),
			zap.Error(err),
		)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": json.RawMessage(res)})
}

func (h *DeviceHandler) Status(c *fiber.Ctx) error {
	if h.status == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "Status channel is disabled"})
	}
	st, ok, err := h.status.Latest(c.UserContext(), c.Params("room"), c.Params("device"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No status received"})
	}
	return c.JSON(st)
}
