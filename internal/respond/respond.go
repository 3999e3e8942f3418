// Package respond writes service errors as JSON responses.
package respond

import (
	"log/slog"
	"net/http"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/dto"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// Error maps err to its HTTP status. Server-side failures are logged, reported
// to Sentry and answered with a generic message.
func Error(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	msg := err.Error()

	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", requestID(c),
			"action", c.Method()+" "+c.Route().Path,
			"status", status,
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		msg = "Internal server error"
		if status == http.StatusServiceUnavailable {
			msg = "Service temporarily unavailable"
		}
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

// BadBody answers a body that failed to parse.
func BadBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}

// Unauthorized answers a request without a usable identity.
func Unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
