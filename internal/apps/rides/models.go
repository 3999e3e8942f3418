package rides

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Visibility string

const (
	VisibilityOpen           Visibility = "OPEN"
	VisibilityFriends        Visibility = "FRIENDS"
	VisibilityPreviousRiders Visibility = "PREVIOUS_RIDERS"
	VisibilityRequestToJoin  Visibility = "REQUEST_TO_JOIN"
	VisibilityPrivate        Visibility = "PRIVATE"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityOpen, VisibilityFriends, VisibilityPreviousRiders, VisibilityRequestToJoin, VisibilityPrivate:
		return true
	}
	return false
}

type Role string

const (
	RoleHost   Role = "HOST"
	RoleMember Role = "MEMBER"
)

// Ride codes are unique only among ACTIVE rides, so an ended ride's code can
// be reused.
type Ride struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Code          string       `gorm:"size:16;not null;uniqueIndex:idx_rides_active_code,where:status = 'ACTIVE'" json:"code"`
	HostID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"host_id"`
	Host          *models.User `gorm:"foreignKey:HostID" json:"-"`
	Visibility    Visibility   `gorm:"size:20;not null;index:idx_rides_status_visibility,priority:2" json:"visibility"`
	Status        Status       `gorm:"size:10;not null;index:idx_rides_status_visibility,priority:1" json:"status"`
	EndpointLabel *string      `gorm:"size:255" json:"endpoint_label,omitempty"`
	EndedAt       *time.Time   `json:"ended_at,omitempty"`
	CreatedAt     time.Time    `gorm:"index" json:"created_at"`
	Members       []RideMember `gorm:"foreignKey:RideID" json:"-"`
}

func (r *Ride) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type RideMember struct {
	ID       uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	RideID   uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_ride_members_ride_user,priority:1" json:"ride_id"`
	UserID   uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_ride_members_ride_user,priority:2;index" json:"user_id"`
	User     *models.User `gorm:"foreignKey:UserID" json:"-"`
	Role     Role         `gorm:"size:10;not null" json:"role"`
	Muted    bool         `gorm:"not null;default:false" json:"muted"`
	JoinedAt time.Time    `gorm:"autoCreateTime" json:"joined_at"`
}

func (m *RideMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Position rows are append-only. The current position of a rider is the row
// with the greatest Ts.
type Position struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RideID    uuid.UUID `gorm:"type:uuid;not null;index:idx_positions_ride_user_ts,priority:1" json:"ride_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_positions_ride_user_ts,priority:2" json:"user_id"`
	Ts        time.Time `gorm:"not null;index:idx_positions_ride_user_ts,priority:3" json:"ts"`
	Latitude  float64   `gorm:"not null" json:"latitude"`
	Longitude float64   `gorm:"not null" json:"longitude"`
	Speed     *float64  `json:"speed,omitempty"`
	Heading   *float64  `json:"heading,omitempty"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
}

func (p *Position) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// --- Request types ---

type CreateRideRequest struct {
	Code          string     `json:"code" validate:"omitempty,min=4,max=16"`
	Visibility    Visibility `json:"visibility" validate:"required"`
	EndpointLabel *string    `json:"endpoint_label" validate:"omitempty,max=255"`
}

type JoinRideRequest struct {
	Code string `json:"code" validate:"required,min=4,max=16"`
}

type UpdatePositionRequest struct {
	RideID    string   `json:"ride_id" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Speed     *float64 `json:"speed" validate:"omitempty,min=0"`
	Heading   *float64 `json:"heading" validate:"omitempty,min=0,max=360"`
	Accuracy  *float64 `json:"accuracy" validate:"omitempty,min=0"`
}

type SetMemberStateRequest struct {
	RideID   string `json:"ride_id" validate:"required,uuid"`
	MemberID string `json:"member_id" validate:"required,uuid"`
	Muted    *bool  `json:"muted" validate:"required"`
}

// --- Response types ---

type RideUser struct {
	ID         uuid.UUID `json:"id"`
	ScreenName string    `json:"screen_name"`
}

type MemberResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	ScreenName string    `json:"screen_name,omitempty"`
	Role       Role      `json:"role"`
	Muted      bool      `json:"muted"`
	JoinedAt   time.Time `json:"joined_at"`
}

type RideResponse struct {
	ID            uuid.UUID        `json:"id"`
	Code          string           `json:"code"`
	HostID        uuid.UUID        `json:"host_id"`
	Visibility    Visibility       `json:"visibility"`
	Status        Status           `json:"status"`
	EndpointLabel *string          `json:"endpoint_label,omitempty"`
	EndedAt       *time.Time       `json:"ended_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	Members       []MemberResponse `json:"members"`
}

type PublicRide struct {
	ID            uuid.UUID        `json:"id"`
	Code          string           `json:"code"`
	Visibility    Visibility       `json:"visibility"`
	EndpointLabel *string          `json:"endpoint_label,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	Host          RideUser         `json:"host"`
	Members       []MemberResponse `json:"members"`
}

func toMemberResponse(m RideMember) MemberResponse {
	resp := MemberResponse{
		ID:       m.ID,
		UserID:   m.UserID,
		Role:     m.Role,
		Muted:    m.Muted,
		JoinedAt: m.JoinedAt,
	}
	if m.User != nil {
		resp.ScreenName = m.User.DisplayName()
	}
	return resp
}

func toMemberResponses(members []RideMember) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberResponse(m))
	}
	return out
}

func toRideResponse(r *Ride) RideResponse {
	return RideResponse{
		ID:            r.ID,
		Code:          r.Code,
		HostID:        r.HostID,
		Visibility:    r.Visibility,
		Status:        r.Status,
		EndpointLabel: r.EndpointLabel,
		EndedAt:       r.EndedAt,
		CreatedAt:     r.CreatedAt,
		Members:       toMemberResponses(r.Members),
	}
}

func toPublicRide(r Ride) PublicRide {
	pr := PublicRide{
		ID:            r.ID,
		Code:          r.Code,
		Visibility:    r.Visibility,
		EndpointLabel: r.EndpointLabel,
		CreatedAt:     r.CreatedAt,
		Host:          RideUser{ID: r.HostID},
		Members:       toMemberResponses(r.Members),
	}
	if r.Host != nil {
		pr.Host.ScreenName = r.Host.DisplayName()
	}
	return pr
}
