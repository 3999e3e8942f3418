package guestusage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)

func TestAdvanceFirstRide(t *testing.T) {
	got := Advance(nil, "ride-1", t0)

	assert.Equal(t, 1, got.RideCount)
	assert.Equal(t, t0, got.WindowStart)
	assert.Equal(t, t0, got.LastRideAt)
	assert.Equal(t, "ride-1", got.LastRideID)
	assert.Nil(t, got.CooldownUntil)
}

func TestAdvanceCooldownAfterLimit(t *testing.T) {
	var rec *GuestUsage
	for i := 1; i <= RideLimit; i++ {
		next := Advance(rec, "ride", t0.Add(time.Duration(i)*time.Hour))
		require.Equal(t, i, next.RideCount)
		require.Nil(t, next.CooldownUntil, "ride %d", i)
		rec = &next
	}

	sixthAt := t0.Add(10 * time.Hour)
	sixth := Advance(rec, "ride-6", sixthAt)
	assert.Equal(t, 6, sixth.RideCount)
	assert.Equal(t, t0.Add(time.Hour), sixth.WindowStart)
	require.NotNil(t, sixth.CooldownUntil)
	assert.Equal(t, sixthAt.AddDate(0, 0, RollingDays), *sixth.CooldownUntil)
}

func TestAdvanceWindowReset(t *testing.T) {
	until := t0.AddDate(0, 0, RollingDays)
	rec := &GuestUsage{RideCount: 6, WindowStart: t0, CooldownUntil: &until, LastRideAt: t0, LastRideID: "old"}

	later := t0.AddDate(0, 0, 31)
	got := Advance(rec, "ride-new", later)

	assert.Equal(t, 1, got.RideCount)
	assert.Equal(t, later, got.WindowStart)
	assert.Nil(t, got.CooldownUntil)
	assert.Equal(t, "ride-new", got.LastRideID)

	assert.Equal(t, 6, rec.RideCount, "existing record must not be mutated")
	assert.NotNil(t, rec.CooldownUntil)
}

func TestAdvanceWindowBoundaryIsInclusive(t *testing.T) {
	rec := &GuestUsage{RideCount: 2, WindowStart: t0, LastRideAt: t0}

	onEdge := Advance(rec, "r", t0.AddDate(0, 0, RollingDays))
	assert.Equal(t, 3, onEdge.RideCount)
	assert.Equal(t, t0, onEdge.WindowStart)

	past := Advance(rec, "r", t0.AddDate(0, 0, RollingDays).Add(time.Second))
	assert.Equal(t, 1, past.RideCount)
}

func TestSummarize(t *testing.T) {
	empty := Summarize("dev", "inst", nil, t0)
	assert.Equal(t, RideLimit, empty.RidesRemaining)
	assert.Equal(t, RideLimit, empty.RideLimit)
	assert.False(t, empty.CoolingDown)
	assert.Nil(t, empty.WindowStart)

	until := t0.AddDate(0, 0, RollingDays)
	rec := &GuestUsage{RideCount: 6, WindowStart: t0, CooldownUntil: &until, LastRideAt: t0, LastRideID: "r6"}

	hot := Summarize("dev", "inst", rec, t0.Add(time.Hour))
	assert.True(t, hot.CoolingDown)
	assert.Zero(t, hot.RidesRemaining)
	assert.Equal(t, "r6", hot.LastRideID)

	cold := Summarize("dev", "inst", rec, t0.AddDate(0, 0, 40))
	assert.False(t, cold.CoolingDown)
	assert.Equal(t, RideLimit, cold.RidesRemaining)

	partial := Summarize("dev", "inst", &GuestUsage{RideCount: 2, WindowStart: t0, LastRideAt: t0}, t0)
	assert.Equal(t, 3, partial.RidesRemaining)
}
