package voice

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type VoicePlugin struct {
	issuer TokenIssuer
}

func New(issuer TokenIssuer) *VoicePlugin {
	return &VoicePlugin{issuer: issuer}
}

func (p *VoicePlugin) ID() string { return "voice" }

func (p *VoicePlugin) Models() []interface{} {
	return []interface{}{
		&VoiceMetric{},
	}
}

func (p *VoicePlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, protect fiber.Handler) {
	handler := NewVoiceHandler(NewVoiceService(db, p.issuer))

	router.Post("/livekit/token", protect, handler.CreateToken)
	router.Post("/voice-metrics", protect, handler.RecordMetric)
}
