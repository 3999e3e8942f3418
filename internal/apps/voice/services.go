package voice

import (
	"context"
	"strings"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/observability"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VoiceService struct {
	db     *gorm.DB
	issuer TokenIssuer
}

func NewVoiceService(db *gorm.DB, issuer TokenIssuer) *VoiceService {
	return &VoiceService{db: db, issuer: issuer}
}

// Token issues a room token. The room is the normalized ride code and the
// participant identity is always the caller's user id; participant is only
// the display name.
func (s *VoiceService) Token(userID uuid.UUID, rideCode, participant string) (string, error) {
	room := strings.ToUpper(strings.TrimSpace(rideCode))
	name := strings.TrimSpace(participant)
	if room == "" || name == "" {
		return "", apperr.Invalid("ride_code and participant_name are required")
	}

	token, err := s.issuer.Issue(room, userID.String(), name)
	if err != nil {
		return "", err
	}
	observability.VoiceTokensIssued.Inc()
	return token, nil
}

func (s *VoiceService) RecordMetric(ctx context.Context, userID uuid.UUID, req *MetricRequest) (*VoiceMetric, error) {
	rideID, err := uuid.Parse(req.RideID)
	if err != nil {
		return nil, apperr.Invalid("ride_id must be a valid uuid")
	}

	m := VoiceMetric{
		ID:             uuid.New(),
		RideID:         rideID,
		UserID:         userID,
		RttMs:          req.RttMs,
		JitterMs:       req.JitterMs,
		PacketLoss:     req.PacketLoss,
		BitrateKbps:    req.BitrateKbps,
		ReconnectCount: req.ReconnectCount,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, apperr.FromDB("record voice metric", err, nil)
	}
	return &m, nil
}
