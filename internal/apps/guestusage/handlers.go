package guestusage

import (
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/respond"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type GuestUsageHandler struct {
	service *Service
}

func NewGuestUsageHandler(service *Service) *GuestUsageHandler {
	return &GuestUsageHandler{service: service}
}

// Track handles POST /guest-usage/track.
func (h *GuestUsageHandler) Track(c *fiber.Ctx) error {
	var req TrackRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadBody(c)
	}
	if err := validation.Struct(req); err != nil {
		return respond.Error(c, err)
	}

	rec, err := h.service.TrackRide(c.UserContext(), req.DeviceID, req.InstallID, req.RideID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(rec)
}

// Status handles GET /guest-usage/status?device_id=&install_id=.
func (h *GuestUsageHandler) Status(c *fiber.Ctx) error {
	var q StatusQuery
	if err := c.QueryParser(&q); err != nil {
		return respond.BadBody(c)
	}
	if err := validation.Struct(q); err != nil {
		return respond.Error(c, err)
	}

	st, err := h.service.Status(c.UserContext(), q.DeviceID, q.InstallID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(st)
}
