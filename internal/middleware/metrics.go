package middleware

import (
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/observability"
	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and latency per route template.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < 400 {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		code := strconv.Itoa(status)
		observability.HTTPRequestsTotal.WithLabelValues(c.Method(), route, code).Inc()
		observability.HTTPRequestDuration.WithLabelValues(c.Method(), route, code).Observe(time.Since(start).Seconds())
		return err
	}
}
