package voice

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 6 * time.Hour

var ErrVoiceNotConfigured = apperr.New(apperr.ErrInvalid, "LiveKit keys not configured")

// TokenIssuer mints room access tokens for the voice server.
type TokenIssuer interface {
	Issue(room, identity, name string) (string, error)
}

// VideoGrant mirrors the LiveKit "video" claim.
type VideoGrant struct {
	RoomJoin     bool   `json:"roomJoin,omitempty"`
	Room         string `json:"room,omitempty"`
	CanPublish   *bool  `json:"canPublish,omitempty"`
	CanSubscribe *bool  `json:"canSubscribe,omitempty"`
}

type AccessClaims struct {
	jwt.RegisteredClaims
	Name  string      `json:"name,omitempty"`
	Video *VideoGrant `json:"video,omitempty"`
}

// LiveKitIssuer signs HS256 access tokens the way LiveKit server SDKs do:
// the API key is the issuer and the participant identity is the subject.
type LiveKitIssuer struct {
	apiKey    string
	apiSecret string
	ttl       time.Duration
	now       func() time.Time
}

func NewLiveKitIssuer(apiKey, apiSecret string, ttl time.Duration) *LiveKitIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &LiveKitIssuer{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		ttl:       ttl,
		now:       time.Now,
	}
}

func (i *LiveKitIssuer) Issue(room, identity, name string) (string, error) {
	if i.apiKey == "" || i.apiSecret == "" {
		return "", ErrVoiceNotConfigured
	}

	now := i.now()
	yes := true
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.apiKey,
			Subject:   identity,
			ID:        identity,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Name: name,
		Video: &VideoGrant{
			RoomJoin:     true,
			Room:         room,
			CanPublish:   &yes,
			CanSubscribe: &yes,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.apiSecret))
}
