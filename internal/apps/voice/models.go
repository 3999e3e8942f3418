package voice

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoiceMetric is one client-reported call quality sample.
type VoiceMetric struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RideID         uuid.UUID `gorm:"type:uuid;not null;index" json:"ride_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	RttMs          *int      `json:"rtt_ms,omitempty"`
	JitterMs       *int      `json:"jitter_ms,omitempty"`
	PacketLoss     *float64  `json:"packet_loss,omitempty"`
	BitrateKbps    *int      `json:"bitrate_kbps,omitempty"`
	ReconnectCount *int      `json:"reconnect_count,omitempty"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

func (m *VoiceMetric) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type TokenRequest struct {
	RideCode        string `json:"ride_code" validate:"required,max=16"`
	ParticipantName string `json:"participant_name" validate:"required,max=100"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type MetricRequest struct {
	RideID         string   `json:"ride_id" validate:"required,uuid"`
	RttMs          *int     `json:"rtt_ms" validate:"omitempty,min=0"`
	JitterMs       *int     `json:"jitter_ms" validate:"omitempty,min=0"`
	PacketLoss     *float64 `json:"packet_loss" validate:"omitempty,min=0,max=100"`
	BitrateKbps    *int     `json:"bitrate_kbps" validate:"omitempty,min=0"`
	ReconnectCount *int     `json:"reconnect_count" validate:"omitempty,min=0"`
}
