package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestPGHandlerPersistsErrorsOnly(t *testing.T) {
	db := dbtest.Open(t)
	h := NewPGHandler(db)
	logger := slog.New(h).With("request_id", "req-1")

	logger.Info("ignored")
	logger.Error("end ride failed", "ride_id", "r-1", "user_id", "u-1", "action", "end_ride", "error", "boom", "attempt", 2)
	h.Stop()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	got := logs[0]
	assert.Equal(t, "end ride failed", got.Message)
	assert.Equal(t, "ERROR", got.Level)
	assert.Equal(t, "req-1", got.RequestID)
	require.NotNil(t, got.RideID)
	assert.Equal(t, "r-1", *got.RideID)
	require.NotNil(t, got.UserID)
	assert.Equal(t, "u-1", *got.UserID)
	assert.Equal(t, "end_ride", got.Action)
	assert.Equal(t, "boom", got.Error)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(got.Extra, &extra))
	assert.EqualValues(t, 2, extra["attempt"])
}

func TestMultiHandlerFansOut(t *testing.T) {
	db := dbtest.Open(t)
	pg := NewPGHandler(db)
	rec := &recordingHandler{}
	logger := slog.New(NewMultiHandler(rec, pg))

	logger.Warn("slow query")
	logger.Error("store down")
	pg.Stop()

	assert.Equal(t, []string{"slow query", "store down"}, rec.messages)

	var count int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPurgeOlderThan(t *testing.T) {
	db := dbtest.Open(t)
	now := time.Now().UTC()
	require.NoError(t, db.Create(&[]models.SystemLog{
		{ID: uuid.New(), Timestamp: now.AddDate(0, 0, -40), Level: "ERROR", Message: "old"},
		{ID: uuid.New(), Timestamp: now.Add(-time.Hour), Level: "ERROR", Message: "fresh"},
	}).Error)

	deleted, err := PurgeOlderThan(db, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var left []models.SystemLog
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "fresh", left[0].Message)
}

type recordingHandler struct {
	messages []string
}

func (r *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (r *recordingHandler) Handle(_ context.Context, rec slog.Record) error {
	r.messages = append(r.messages, rec.Message)
	return nil
}

func (r *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return r }

func (r *recordingHandler) WithGroup(string) slog.Handler { return r }
