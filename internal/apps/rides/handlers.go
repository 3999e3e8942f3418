package rides

import (
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/respond"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RideHandler struct {
	service *Service
	catalog *Catalog
}

func NewRideHandler(service *Service, catalog *Catalog) *RideHandler {
	return &RideHandler{service: service, catalog: catalog}
}

// CreateRide handles POST /rides.
func (h *RideHandler) CreateRide(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}

	var req CreateRideRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadBody(c)
	}
	if err := validation.Struct(req); err != nil {
		return respond.Error(c, err)
	}

	ride, err := h.service.CreateRide(c.UserContext(), userID, CreateRideInput{
		Code:          req.Code,
		Visibility:    req.Visibility,
		EndpointLabel: req.EndpointLabel,
	})
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRideResponse(ride))
}

// JoinRide handles POST /rides/join.
func (h *RideHandler) JoinRide(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}

	var req JoinRideRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadBody(c)
	}
	if err := validation.Struct(req); err != nil {
		return respond.Error(c, err)
	}

	ride, err := h.service.JoinRide(c.UserContext(), userID, req.Code)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(toRideResponse(ride))
}

// UpdatePosition handles POST /rides/position.
func (h *RideHandler) UpdatePosition(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}

	var req UpdatePositionRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadBody(c)
	}
	if err := validation.Struct(req); err != nil {
		return respond.Error(c, err)
	}

	pos, err := h.service.UpdatePosition(c.UserContext(), userID, req.RideID, Coords{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Speed:     req.Speed,
		Heading:   req.Heading,
		Accuracy:  req.Accuracy,
	})
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pos)
}

// SetMemberState handles PATCH /rides/members.
func (h *RideHandler) SetMemberState(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}

	var req SetMemberStateRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadBody(c)
	}
	if err := validation.Struct(req); err != nil {
		return respond.Error(c, err)
	}

	member, err := h.service.SetMemberState(c.UserContext(), userID,
		uuid.MustParse(req.RideID), uuid.MustParse(req.MemberID), *req.Muted)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(toMemberResponse(*member))
}

// EndRide handles PATCH /rides/:rideId/end.
func (h *RideHandler) EndRide(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}

	rideID, err := rideIDParam(c)
	if err != nil {
		return respond.Error(c, err)
	}

	ride, err := h.service.EndRide(c.UserContext(), userID, rideID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(toRideResponse(ride))
}

// GetRide handles GET /rides/:rideId.
func (h *RideHandler) GetRide(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}

	rideID, err := rideIDParam(c)
	if err != nil {
		return respond.Error(c, err)
	}

	ride, err := h.service.GetRide(c.UserContext(), userID, rideID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(toRideResponse(ride))
}

// CurrentPositions handles GET /rides/:rideId/positions.
func (h *RideHandler) CurrentPositions(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}

	rideID, err := rideIDParam(c)
	if err != nil {
		return respond.Error(c, err)
	}

	positions, err := h.service.CurrentPositions(c.UserContext(), userID, rideID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{"positions": positions})
}

// ListPublicRides handles GET /rides/public.
func (h *RideHandler) ListPublicRides(c *fiber.Ctx) error {
	list, err := h.catalog.ListPublicRides(c.UserContext())
	if err != nil {
		return respond.Error(c, err)
	}
	return c.JSON(fiber.Map{"rides": list})
}

func rideIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("rideId"))
	if err != nil {
		return uuid.Nil, apperr.Invalid("rideId must be a valid uuid")
	}
	return id, nil
}
