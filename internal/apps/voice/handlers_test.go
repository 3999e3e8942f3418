package voice

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T, issuer TokenIssuer) (*fiber.App, *gorm.DB, string, uuid.UUID) {
	t.Helper()
	db := dbtest.Open(t, New(issuer).Models()...)
	cfg := &config.Config{JWTSecret: "test-secret"}
	app := fiber.New()
	New(issuer).RegisterRoutes(app.Group("/api"), db, middleware.JWTProtected(cfg))

	userID := dbtest.CreateUser(t, db, "ayla")
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return app, db, "Bearer " + signed, userID
}

func post(t *testing.T, app *fiber.App, path, auth string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateTokenHTTP(t *testing.T) {
	app, _, auth, userID := setup(t, NewLiveKitIssuer("key", "secret", time.Hour))

	resp := post(t, app, "/api/livekit/token", auth, map[string]string{"ride_code": " coast1 ", "participant_name": " ayla "})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	var claims AccessClaims
	_, err := jwt.ParseWithClaims(out.Token, &claims, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	assert.Equal(t, "COAST1", claims.Video.Room)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "ayla", claims.Name)

	// The display name cannot move the token onto another identity.
	resp = post(t, app, "/api/livekit/token", auth, map[string]string{"ride_code": "COAST1", "participant_name": "deniz"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	claims = AccessClaims{}
	_, err = jwt.ParseWithClaims(out.Token, &claims, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "deniz", claims.Name)

	resp = post(t, app, "/api/livekit/token", "", map[string]string{"ride_code": "COAST1", "participant_name": "ayla"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateTokenNotConfigured(t *testing.T) {
	app, _, auth, _ := setup(t, NewLiveKitIssuer("", "", 0))

	resp := post(t, app, "/api/livekit/token", auth, map[string]string{"ride_code": "COAST1", "participant_name": "ayla"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecordMetricHTTP(t *testing.T) {
	app, db, auth, _ := setup(t, NewLiveKitIssuer("key", "secret", time.Hour))
	rideID := uuid.New()

	resp := post(t, app, "/api/voice-metrics", auth, map[string]any{"ride_id": rideID, "rtt_ms": 84, "packet_loss": 1.5})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var stored []VoiceMetric
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, rideID, stored[0].RideID)
	require.NotNil(t, stored[0].RttMs)
	assert.Equal(t, 84, *stored[0].RttMs)
	assert.Nil(t, stored[0].JitterMs)

	resp = post(t, app, "/api/voice-metrics", auth, map[string]any{"ride_id": "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
