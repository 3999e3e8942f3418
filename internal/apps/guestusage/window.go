package guestusage

import "time"

const (
	RideLimit   = 5
	RollingDays = 30
)

// windowOpen reports whether a window that started at start still covers now.
// The bound is calendar days, not 24h multiples.
func windowOpen(start, now time.Time) bool {
	return !start.Before(now.AddDate(0, 0, -RollingDays))
}

// Advance applies one ride to existing (nil for a first ride) and returns the
// new record. It never rejects a ride; exceeding the limit only sets a
// cooldown.
func Advance(existing *GuestUsage, rideID string, now time.Time) GuestUsage {
	if existing == nil {
		return GuestUsage{
			RideCount:   1,
			WindowStart: now,
			LastRideAt:  now,
			LastRideID:  rideID,
		}
	}

	next := *existing
	if windowOpen(existing.WindowStart, now) {
		next.RideCount = existing.RideCount + 1
	} else {
		next.RideCount = 1
		next.WindowStart = now
	}

	next.CooldownUntil = nil
	if next.RideCount > RideLimit {
		until := now.AddDate(0, 0, RollingDays)
		next.CooldownUntil = &until
	}

	next.LastRideAt = now
	next.LastRideID = rideID
	return next
}

// Summarize builds the quota view of rec at now. A nil rec is a guest with no
// rides yet.
func Summarize(deviceID, installID string, rec *GuestUsage, now time.Time) UsageStatus {
	st := UsageStatus{
		DeviceID:       deviceID,
		InstallID:      installID,
		RidesRemaining: RideLimit,
		RideLimit:      RideLimit,
	}
	if rec == nil {
		return st
	}

	windowStart, lastRideAt := rec.WindowStart, rec.LastRideAt
	st.RideCount = rec.RideCount
	st.WindowStart = &windowStart
	st.LastRideAt = &lastRideAt
	st.LastRideID = rec.LastRideID
	st.CooldownUntil = rec.CooldownUntil
	st.CoolingDown = rec.CooldownUntil != nil && rec.CooldownUntil.After(now)

	if windowOpen(rec.WindowStart, now) {
		st.RidesRemaining = max(0, RideLimit-rec.RideCount)
	}
	return st
}
