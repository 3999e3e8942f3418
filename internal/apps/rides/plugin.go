package rides

import (
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/events"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RidesPlugin struct {
	events    events.Publisher
	positions PositionBroadcaster
}

func New(publisher events.Publisher, positions PositionBroadcaster) *RidesPlugin {
	return &RidesPlugin{events: publisher, positions: positions}
}

func (p *RidesPlugin) ID() string { return "rides" }

func (p *RidesPlugin) Models() []interface{} {
	return []interface{}{
		&Ride{},
		&RideMember{},
		&Position{},
	}
}

func (p *RidesPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, protect fiber.Handler) {
	store := NewStore(db)
	handler := NewRideHandler(NewService(store, p.events, p.positions), NewCatalog(store))

	// Public listing is registered before /:rideId so it is not captured by it.
	router.Get("/rides/public", handler.ListPublicRides)

	rides := router.Group("/rides", protect)
	rides.Post("/", handler.CreateRide)
	rides.Post("/join", handler.JoinRide)
	rides.Post("/position", handler.UpdatePosition)
	rides.Patch("/members", handler.SetMemberState)
	rides.Patch("/:rideId/end", handler.EndRide)
	rides.Get("/:rideId", handler.GetRide)
	rides.Get("/:rideId/positions", handler.CurrentPositions)
}
