package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	plugins []apps.Plugin,
) {
	api := app.Group("/api")

	// Health and metrics are scraped often; keep them outside the limiter.
	api.Get("/health", healthHandler.Check)
	api.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// General API rate limiter: 120 req/min per IP. Position updates from a
	// ride arrive every few seconds per rider.
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	authLimit := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	api.Post("/users/signup", authLimit, authHandler.Signup)
	api.Post("/auth/login", authLimit, authHandler.Login)

	protect := middleware.JWTProtected(cfg)
	api.Post("/auth/screen-name", protect, authHandler.SetScreenName)

	for _, p := range plugins {
		p.RegisterRoutes(api, db, protect)
	}
}
