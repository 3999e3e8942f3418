package voice

import (
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/respond"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type VoiceHandler struct {
	service *VoiceService
}

func NewVoiceHandler(service *VoiceService) *VoiceHandler {
	return &VoiceHandler{service: service}
}

// CreateToken handles POST /livekit/token.
func (h *VoiceHandler) CreateToken(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}

	var req TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadBody(c)
	}
	if err := validation.Struct(req); err != nil {
		return respond.Error(c, err)
	}

	token, err := h.service.Token(userID, req.RideCode, req.ParticipantName)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(TokenResponse{Token: token})
}

// RecordMetric handles POST /voice-metrics.
func (h *VoiceHandler) RecordMetric(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}

	var req MetricRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadBody(c)
	}
	if err := validation.Struct(req); err != nil {
		return respond.Error(c, err)
	}

	m, err := h.service.RecordMetric(c.UserContext(), userID, &req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}
