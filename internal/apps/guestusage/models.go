package guestusage

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GuestUsage counts rides for one anonymous install inside a rolling window.
// Rows are never deleted.
type GuestUsage struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DeviceID      string     `gorm:"size:255;not null;uniqueIndex:idx_guest_usage_device_install,priority:1" json:"device_id"`
	InstallID     string     `gorm:"size:255;not null;uniqueIndex:idx_guest_usage_device_install,priority:2" json:"install_id"`
	RideCount     int        `gorm:"not null" json:"ride_count"`
	WindowStart   time.Time  `gorm:"not null" json:"window_start"`
	CooldownUntil *time.Time `json:"cooldown_until"`
	LastRideAt    time.Time  `gorm:"not null" json:"last_ride_at"`
	LastRideID    string     `gorm:"size:255;not null" json:"last_ride_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (GuestUsage) TableName() string { return "guest_usage" }

func (g *GuestUsage) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

type TrackRequest struct {
	DeviceID  string `json:"device_id" validate:"required,max=255"`
	InstallID string `json:"install_id" validate:"required,max=255"`
	RideID    string `json:"ride_id" validate:"required,max=255"`
}

type StatusQuery struct {
	DeviceID  string `query:"device_id" json:"device_id" validate:"required,max=255"`
	InstallID string `query:"install_id" json:"install_id" validate:"required,max=255"`
}

// UsageStatus is a read-only view of a guest's quota. Callers decide what to
// do with a guest that is cooling down.
type UsageStatus struct {
	DeviceID       string     `json:"device_id"`
	InstallID      string     `json:"install_id"`
	RideCount      int        `json:"ride_count"`
	WindowStart    *time.Time `json:"window_start"`
	CooldownUntil  *time.Time `json:"cooldown_until"`
	LastRideAt     *time.Time `json:"last_ride_at"`
	LastRideID     string     `json:"last_ride_id,omitempty"`
	CoolingDown    bool       `json:"cooling_down"`
	RidesRemaining int        `json:"rides_remaining"`
	RideLimit      int        `json:"ride_limit"`
}
