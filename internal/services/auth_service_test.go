package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(dbtest.Open(t), &config.Config{JWTSecret: "test-secret", JWTAccessExpiry: time.Hour})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.SignupRequest{Email: " Ayla@Example.com", ScreenName: "ayla", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "ayla@example.com", resp.User.Email)
	assert.Equal(t, "ayla", resp.User.ScreenName)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	sub, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), sub)
	assert.Equal(t, "ayla@example.com", claims["email"])

	var stored models.User
	require.NoError(t, svc.db.First(&stored, "id = ?", resp.User.ID).Error)
	assert.NotEqual(t, "password1", stored.PasswordHash)

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "ayla@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ayla@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterConflicts(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.SignupRequest{Email: "ayla@example.com", ScreenName: "ayla", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.SignupRequest{Email: "ayla@example.com", ScreenName: "other", Password: "password1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.Register(ctx, &dto.SignupRequest{Email: "deniz@example.com", ScreenName: "ayla", Password: "password1"})
	assert.ErrorIs(t, err, ErrScreenNameTaken)
}

// claimBeforeInsert commits a competing user after the signup's availability
// checks and before its insert, the way a concurrent signup that won the race
// would.
func claimBeforeInsert(t *testing.T, svc *AuthService, email, screenName string) {
	t.Helper()
	var done bool
	err := svc.db.Callback().Create().Before("gorm:begin_transaction").Register("test:claim_first", func(tx *gorm.DB) {
		if done {
			return
		}
		done = true
		if _, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
			"INSERT INTO users (id, email, screen_name, password_hash) VALUES (?, ?, ?, ?)",
			uuid.New().String(), email, screenName, "x"); err != nil {
			tx.AddError(err)
		}
	})
	require.NoError(t, err)
}

func TestRegisterLostRace(t *testing.T) {
	ctx := context.Background()

	t.Run("email", func(t *testing.T) {
		svc := newAuthService(t)
		claimBeforeInsert(t, svc, "ayla@example.com", "first")

		_, err := svc.Register(ctx, &dto.SignupRequest{Email: "ayla@example.com", ScreenName: "ayla", Password: "password1"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("screen name", func(t *testing.T) {
		svc := newAuthService(t)
		claimBeforeInsert(t, svc, "first@example.com", "ayla")

		_, err := svc.Register(ctx, &dto.SignupRequest{Email: "ayla@example.com", ScreenName: "ayla", Password: "password1"})
		assert.ErrorIs(t, err, ErrScreenNameTaken)
	})
}

func TestSetScreenName(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	ayla, err := svc.Register(ctx, &dto.SignupRequest{Email: "ayla@example.com", ScreenName: "ayla", Password: "password1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, &dto.SignupRequest{Email: "deniz@example.com", ScreenName: "deniz", Password: "password1"})
	require.NoError(t, err)

	resp, err := svc.SetScreenName(ctx, ayla.User.ID, " throttle ")
	require.NoError(t, err)
	assert.Equal(t, "throttle", resp.ScreenName)

	_, err = svc.SetScreenName(ctx, ayla.User.ID, "throttle")
	require.NoError(t, err)

	_, err = svc.SetScreenName(ctx, ayla.User.ID, "deniz")
	assert.ErrorIs(t, err, ErrScreenNameTaken)
}
