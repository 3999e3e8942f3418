package rides

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/realtime"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t, New(nil, nil).Models()...)
	cfg := &config.Config{JWTSecret: testSecret}

	app := fiber.New()
	api := app.Group("/api")
	New(events.Nop{}, realtime.Nop{}).RegisterRoutes(api, db, middleware.JWTProtected(cfg))
	return app, db
}

func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestRideHTTPFlow(t *testing.T) {
	app, db := newTestApp(t)
	host := dbtest.CreateUser(t, db, "ayla")
	rider := dbtest.CreateUser(t, db, "deniz")

	status, body := call(t, app, http.MethodPost, "/api/rides", bearer(t, host), map[string]any{
		"code": "coast1", "visibility": "OPEN",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var created RideResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "COAST1", created.Code)
	require.Len(t, created.Members, 1)

	status, body = call(t, app, http.MethodPost, "/api/rides/join", bearer(t, rider), map[string]any{"code": "COAST1"})
	require.Equal(t, http.StatusOK, status, string(body))
	var joined RideResponse
	require.NoError(t, json.Unmarshal(body, &joined))
	require.Len(t, joined.Members, 2)
	member := joined.Members[1]

	status, _ = call(t, app, http.MethodPost, "/api/rides/position", bearer(t, rider), map[string]any{
		"ride_id": "COAST1", "latitude": 41.01, "longitude": 28.97,
	})
	require.Equal(t, http.StatusCreated, status)

	status, body = call(t, app, http.MethodGet, "/api/rides/"+created.ID.String()+"/positions", bearer(t, host), nil)
	require.Equal(t, http.StatusOK, status)
	var positions struct {
		Positions []Position `json:"positions"`
	}
	require.NoError(t, json.Unmarshal(body, &positions))
	require.Len(t, positions.Positions, 1)
	assert.Equal(t, rider, positions.Positions[0].UserID)

	status, _ = call(t, app, http.MethodPatch, "/api/rides/members", bearer(t, rider), map[string]any{
		"ride_id": created.ID, "member_id": member.ID, "muted": true,
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = call(t, app, http.MethodPatch, "/api/rides/members", bearer(t, host), map[string]any{
		"ride_id": created.ID, "member_id": member.ID, "muted": true,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var muted MemberResponse
	require.NoError(t, json.Unmarshal(body, &muted))
	assert.True(t, muted.Muted)

	status, body = call(t, app, http.MethodGet, "/api/rides/public", "", nil)
	require.Equal(t, http.StatusOK, status)
	var public struct {
		Rides []PublicRide `json:"rides"`
	}
	require.NoError(t, json.Unmarshal(body, &public))
	require.Len(t, public.Rides, 1)
	assert.Equal(t, "ayla", public.Rides[0].Host.ScreenName)

	status, _ = call(t, app, http.MethodPatch, "/api/rides/"+created.ID.String()+"/end", bearer(t, host), nil)
	require.Equal(t, http.StatusOK, status)

	status, body = call(t, app, http.MethodPatch, "/api/rides/"+created.ID.String()+"/end", bearer(t, host), nil)
	assert.Equal(t, http.StatusConflict, status)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "ride has ended", errResp.Message)

	status, _ = call(t, app, http.MethodPost, "/api/rides/join", bearer(t, rider), map[string]any{"code": "COAST1"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRideHTTPValidation(t *testing.T) {
	app, db := newTestApp(t)
	host := dbtest.CreateUser(t, db, "ayla")

	status, _ := call(t, app, http.MethodPost, "/api/rides", "", map[string]any{"code": "COAST1", "visibility": "OPEN"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodPost, "/api/rides", bearer(t, host), map[string]any{"code": "COAST1", "visibility": "EVERYONE"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodPost, "/api/rides", bearer(t, host), map[string]any{"code": "COAST1"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodPost, "/api/rides/position", bearer(t, host), map[string]any{"ride_id": "COAST1", "latitude": 95.0, "longitude": 10.0})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodPatch, "/api/rides/not-a-uuid/end", bearer(t, host), nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodGet, "/api/rides/"+uuid.NewString(), bearer(t, host), nil)
	assert.Equal(t, http.StatusNotFound, status)
}
