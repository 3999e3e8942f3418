package rides

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/observability"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generated codes avoid look-alike characters (0/O, 1/I).
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
	codeAttempts = 3
)

// PositionBroadcaster pushes a stored position to live subscribers.
type PositionBroadcaster interface {
	Broadcast(ctx context.Context, rideID uuid.UUID, v any) error
}

type CreateRideInput struct {
	Code          string
	Visibility    Visibility
	EndpointLabel *string
}

type Coords struct {
	Latitude  float64
	Longitude float64
	Speed     *float64
	Heading   *float64
	Accuracy  *float64
}

type Service struct {
	store     Store
	events    events.Publisher
	positions PositionBroadcaster
	now       func() time.Time
	newCode   func() (string, error)
}

func NewService(store Store, publisher events.Publisher, positions PositionBroadcaster) *Service {
	return &Service{
		store:     store,
		events:    publisher,
		positions: positions,
		now:       func() time.Time { return time.Now().UTC() },
		newCode:   func() (string, error) { return gonanoid.Generate(codeAlphabet, codeLength) },
	}
}

// NormalizeCode trims and uppercases a ride code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func isHost(r *Ride, userID uuid.UUID) bool {
	return r.HostID == userID
}

// CreateRide stores a ride and its HOST membership together. An empty code is
// replaced by a generated one.
func (s *Service) CreateRide(ctx context.Context, userID uuid.UUID, in CreateRideInput) (*Ride, error) {
	if !in.Visibility.Valid() {
		return nil, ErrInvalidVisibility
	}

	code := NormalizeCode(in.Code)
	generated := code == ""

	var label *string
	if in.EndpointLabel != nil {
		if l := strings.TrimSpace(*in.EndpointLabel); l != "" {
			label = &l
		}
	}

	for attempt := 1; ; attempt++ {
		if generated {
			c, err := s.newCode()
			if err != nil {
				return nil, err
			}
			code = c
		}

		now := s.now()
		ride := &Ride{
			ID:            uuid.New(),
			Code:          code,
			HostID:        userID,
			Visibility:    in.Visibility,
			Status:        StatusActive,
			EndpointLabel: label,
			CreatedAt:     now,
		}
		host := &RideMember{
			ID:       uuid.New(),
			UserID:   userID,
			Role:     RoleHost,
			JoinedAt: now,
		}

		err := s.store.CreateRideWithHost(ctx, ride, host)
		if errors.Is(err, ErrCodeTaken) && generated && attempt < codeAttempts {
			continue
		}
		if err != nil {
			return nil, err
		}

		observability.RidesCreated.Inc()
		s.publish(ctx, events.RideCreated, ride, userID)

		ride.Members, err = s.store.ListMembers(ctx, ride.ID)
		if err != nil {
			return nil, err
		}
		return ride, nil
	}
}

// JoinRide adds the caller as a MEMBER of the ACTIVE ride with this code.
// Joining a ride twice returns it unchanged.
func (s *Service) JoinRide(ctx context.Context, userID uuid.UUID, code string) (*Ride, error) {
	found, err := s.store.FindRideByCode(ctx, NormalizeCode(code))
	if err != nil {
		return nil, err
	}

	var (
		ride     *Ride
		inserted bool
	)
	err = s.store.WithRideLock(ctx, found.ID, LockUpdate, func(tx Store, locked *Ride) error {
		// The ride may have ended while we waited for the lock.
		if ensureActive(locked) != nil {
			return ErrRideNotFound
		}
		ride = locked

		var err error
		inserted, err = tx.InsertMembership(ctx, &RideMember{
			ID:       uuid.New(),
			RideID:   locked.ID,
			UserID:   userID,
			Role:     RoleMember,
			JoinedAt: s.now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if inserted {
		observability.RideJoins.Inc()
		s.publish(ctx, events.RideMemberJoined, ride, userID)
	}

	ride.Members, err = s.store.ListMembers(ctx, ride.ID)
	if err != nil {
		return nil, err
	}
	return ride, nil
}

// UpdatePosition appends a position sample. rideRef is a ride id or an active
// ride code.
func (s *Service) UpdatePosition(ctx context.Context, userID uuid.UUID, rideRef string, c Coords) (*Position, error) {
	rideID, err := s.resolveRide(ctx, rideRef)
	if err != nil {
		return nil, err
	}

	var pos *Position
	err = s.store.WithRideLock(ctx, rideID, LockShare, func(tx Store, ride *Ride) error {
		if _, err := tx.FindMembership(ctx, ride.ID, userID); err != nil {
			return err
		}
		if err := ensureActive(ride); err != nil {
			return err
		}

		pos = &Position{
			ID:        uuid.New(),
			RideID:    ride.ID,
			UserID:    userID,
			Ts:        s.now(),
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			Speed:     c.Speed,
			Heading:   c.Heading,
			Accuracy:  c.Accuracy,
		}
		return tx.InsertPosition(ctx, pos)
	})
	if err != nil {
		return nil, err
	}

	observability.PositionsRecorded.Inc()
	if err := s.positions.Broadcast(ctx, pos.RideID, pos); err != nil {
		observability.SideChannelFailures.WithLabelValues("redis").Inc()
		slog.Warn("position broadcast failed",
			"ride_id", pos.RideID.String(),
			"user_id", userID.String(),
			"error", err.Error(),
		)
	}
	return pos, nil
}

// SetMemberState mutes or unmutes a member. Only the host may do this, and
// the host may target themselves.
func (s *Service) SetMemberState(ctx context.Context, actingUserID, rideID, memberID uuid.UUID, muted bool) (*RideMember, error) {
	var member *RideMember
	err := s.store.WithRideLock(ctx, rideID, LockUpdate, func(tx Store, ride *Ride) error {
		if !isHost(ride, actingUserID) {
			return ErrNotHost
		}
		if err := ensureActive(ride); err != nil {
			return err
		}

		m, err := tx.FindMember(ctx, ride.ID, memberID)
		if err != nil {
			return err
		}
		if err := tx.UpdateMemberMuted(ctx, ride.ID, m.ID, muted); err != nil {
			return err
		}
		m.Muted = muted
		member = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// EndRide moves an ACTIVE ride to ENDED. Ending an ended ride fails and leaves
// ended_at untouched.
func (s *Service) EndRide(ctx context.Context, actingUserID, rideID uuid.UUID) (*Ride, error) {
	var ride *Ride
	err := s.store.WithRideLock(ctx, rideID, LockUpdate, func(tx Store, locked *Ride) error {
		if !isHost(locked, actingUserID) {
			return ErrNotHost
		}

		next, err := locked.Status.Transition(EventEnd)
		if err != nil {
			return err
		}

		endedAt := s.now()
		if err := tx.UpdateRideStatus(ctx, locked.ID, next, endedAt); err != nil {
			return err
		}
		locked.Status = next
		locked.EndedAt = &endedAt
		ride = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.RidesEnded.Inc()
	s.publish(ctx, events.RideEnded, ride, actingUserID)
	return ride, nil
}

// GetRide returns a ride with its members. Only members may read it.
func (s *Service) GetRide(ctx context.Context, userID, rideID uuid.UUID) (*Ride, error) {
	ride, err := s.store.FindRideByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.FindMembership(ctx, ride.ID, userID); err != nil {
		return nil, err
	}

	ride.Members, err = s.store.ListMembers(ctx, ride.ID)
	if err != nil {
		return nil, err
	}
	return ride, nil
}

// CurrentPositions returns the latest sample of every rider on the ride.
func (s *Service) CurrentPositions(ctx context.Context, userID, rideID uuid.UUID) ([]Position, error) {
	if _, err := s.store.FindRideByID(ctx, rideID); err != nil {
		return nil, err
	}
	if _, err := s.store.FindMembership(ctx, rideID, userID); err != nil {
		return nil, err
	}
	return s.store.LatestPositions(ctx, rideID)
}

func (s *Service) resolveRide(ctx context.Context, ref string) (uuid.UUID, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}
	ride, err := s.store.FindRideByCode(ctx, NormalizeCode(ref))
	if err != nil {
		return uuid.Nil, err
	}
	return ride.ID, nil
}

// publish is best effort: a broker failure never fails the operation.
func (s *Service) publish(ctx context.Context, eventType string, ride *Ride, userID uuid.UUID) {
	err := s.events.Publish(ctx, events.Event{
		Type:       eventType,
		RideID:     ride.ID,
		UserID:     userID,
		Code:       ride.Code,
		OccurredAt: s.now(),
	})
	if err != nil {
		observability.SideChannelFailures.WithLabelValues("amqp").Inc()
		slog.Warn("ride event publish failed",
			"action", eventType,
			"ride_id", ride.ID.String(),
			"user_id", userID.String(),
			"error", err.Error(),
		)
	}
}
