package guestusage

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GuestUsagePlugin struct{}

func New() *GuestUsagePlugin {
	return &GuestUsagePlugin{}
}

func (p *GuestUsagePlugin) ID() string { return "guest-usage" }

func (p *GuestUsagePlugin) Models() []interface{} {
	return []interface{}{
		&GuestUsage{},
	}
}

// RegisterRoutes mounts the guest endpoints. Guests have no account, so none
// of these routes use protect.
func (p *GuestUsagePlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, protect fiber.Handler) {
	handler := NewGuestUsageHandler(NewService(NewStore(db)))

	router.Post("/guest-usage/track", handler.Track)
	router.Get("/guest-usage/status", handler.Status)
}
