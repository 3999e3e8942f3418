package apps

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Plugin is one feature area of the API: its tables and its routes.
type Plugin interface {
	// ID names the plugin in logs.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts the plugin's routes on the /api group. protect is
	// the JWT middleware; plugins attach it to the routes that need a user.
	RegisterRoutes(router fiber.Router, db *gorm.DB, protect fiber.Handler)
}
