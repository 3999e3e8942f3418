package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/respond"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadBody(c)
	}
	if err := validation.Struct(req); err != nil {
		return respond.Error(c, err)
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return respond.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadBody(c)
	}
	if err := validation.Struct(req); err != nil {
		return respond.Error(c, err)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return respond.Error(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) SetScreenName(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}

	var req dto.ScreenNameRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadBody(c)
	}
	if err := validation.Struct(req); err != nil {
		return respond.Error(c, err)
	}

	resp, err := h.authService.SetScreenName(c.UserContext(), userID, req.ScreenName)
	if err != nil {
		return respond.Error(c, err)
	}

	return c.JSON(resp)
}
