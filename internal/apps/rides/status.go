package rides

import "github.com/ahmetcoskunkizilkaya/groupride-backend/internal/apperr"

// Status is the ride lifecycle state. ACTIVE -> ENDED is the only transition.
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusEnded  Status = "ENDED"
)

type Event string

const EventEnd Event = "end"

// Transition returns the state reached by applying e. Every event on an ended
// ride fails with ErrRideEnded.
func (s Status) Transition(e Event) (Status, error) {
	switch s {
	case StatusEnded:
		return s, ErrRideEnded
	case StatusActive:
		if e == EventEnd {
			return StatusEnded, nil
		}
	}
	return s, apperr.Invalid("no transition from %s on %q", s, e)
}

// ensureActive guards every operation that writes to a ride.
func ensureActive(r *Ride) error {
	if r.Status != StatusActive {
		return ErrRideEnded
	}
	return nil
}
