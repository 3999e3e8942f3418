package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	at := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	e := Event{Type: RideEnded, RideID: uuid.New(), UserID: uuid.New(), OccurredAt: at}

	body, err := Encode(e)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "ride.ended", got["type"])
	assert.Equal(t, e.RideID.String(), got["ride_id"])
	assert.Equal(t, "2026-03-01T08:30:00Z", got["occurred_at"])
	assert.NotContains(t, got, "code")
}

func TestNopPublish(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), Event{Type: RideCreated}))
}
