package rides

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/apperr"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockMode selects the row lock WithRideLock takes on the ride.
type LockMode int

const (
	LockShare LockMode = iota
	LockUpdate
)

// Store is the persistence boundary of the ride lifecycle. Lookups return the
// package's not-found errors; other storage failures are apperr transient.
type Store interface {
	CreateRideWithHost(ctx context.Context, ride *Ride, host *RideMember) error
	FindRideByID(ctx context.Context, id uuid.UUID) (*Ride, error)
	// FindRideByCode only matches ACTIVE rides.
	FindRideByCode(ctx context.Context, code string) (*Ride, error)
	FindMembership(ctx context.Context, rideID, userID uuid.UUID) (*RideMember, error)
	FindMember(ctx context.Context, rideID, memberID uuid.UUID) (*RideMember, error)
	ListMembers(ctx context.Context, rideID uuid.UUID) ([]RideMember, error)
	// InsertMembership reports false when the (ride, user) pair already exists.
	InsertMembership(ctx context.Context, m *RideMember) (bool, error)
	UpdateMemberMuted(ctx context.Context, rideID, memberID uuid.UUID, muted bool) error
	// UpdateRideStatus only moves ACTIVE rides; an ended ride yields ErrRideEnded.
	UpdateRideStatus(ctx context.Context, rideID uuid.UUID, status Status, endedAt time.Time) error
	InsertPosition(ctx context.Context, p *Position) error
	LatestPositions(ctx context.Context, rideID uuid.UUID) ([]Position, error)
	ListActiveOpenRides(ctx context.Context) ([]Ride, error)
	// WithRideLock runs fn in a transaction holding a row lock on the ride.
	// fn must only use the Store it is given.
	WithRideLock(ctx context.Context, rideID uuid.UUID, mode LockMode, fn func(tx Store, ride *Ride) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) CreateRideWithHost(ctx context.Context, ride *Ride, host *RideMember) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(ride).Error; err != nil {
			return err
		}
		host.RideID = ride.ID
		return tx.Omit(clause.Associations).Create(host).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrCodeTaken
	}
	return apperr.FromDB("create ride", err, nil)
}

func (s *gormStore) FindRideByID(ctx context.Context, id uuid.UUID) (*Ride, error) {
	var ride Ride
	err := s.db.WithContext(ctx).First(&ride, "id = ?", id).Error
	if err != nil {
		return nil, apperr.FromDB("find ride", err, ErrRideNotFound)
	}
	return &ride, nil
}

func (s *gormStore) FindRideByCode(ctx context.Context, code string) (*Ride, error) {
	var ride Ride
	err := s.db.WithContext(ctx).
		Where("code = ? AND status = ?", code, StatusActive).
		First(&ride).Error
	if err != nil {
		return nil, apperr.FromDB("find ride by code", err, ErrRideNotFound)
	}
	return &ride, nil
}

func (s *gormStore) FindMembership(ctx context.Context, rideID, userID uuid.UUID) (*RideMember, error) {
	var m RideMember
	err := s.db.WithContext(ctx).
		Where("ride_id = ? AND user_id = ?", rideID, userID).
		First(&m).Error
	if err != nil {
		return nil, apperr.FromDB("find membership", err, ErrMembershipNotFound)
	}
	return &m, nil
}

func (s *gormStore) FindMember(ctx context.Context, rideID, memberID uuid.UUID) (*RideMember, error) {
	var m RideMember
	err := s.db.WithContext(ctx).
		Where("id = ? AND ride_id = ?", memberID, rideID).
		First(&m).Error
	if err != nil {
		return nil, apperr.FromDB("find member", err, ErrMemberNotFound)
	}
	return &m, nil
}

func (s *gormStore) ListMembers(ctx context.Context, rideID uuid.UUID) ([]RideMember, error) {
	var members []RideMember
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("ride_id = ?", rideID).
		Order("joined_at ASC, id ASC").
		Find(&members).Error
	if err != nil {
		return nil, apperr.FromDB("list members", err, nil)
	}
	return members, nil
}

func (s *gormStore) InsertMembership(ctx context.Context, m *RideMember) (bool, error) {
	res := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ride_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return false, apperr.FromDB("insert membership", res.Error, nil)
	}
	return res.RowsAffected == 1, nil
}

func (s *gormStore) UpdateMemberMuted(ctx context.Context, rideID, memberID uuid.UUID, muted bool) error {
	res := s.db.WithContext(ctx).
		Model(&RideMember{}).
		Where("id = ? AND ride_id = ?", memberID, rideID).
		Update("muted", muted)
	if res.Error != nil {
		return apperr.FromDB("update member", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (s *gormStore) UpdateRideStatus(ctx context.Context, rideID uuid.UUID, status Status, endedAt time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&Ride{}).
		Where("id = ? AND status = ?", rideID, StatusActive).
		Updates(map[string]interface{}{"status": status, "ended_at": endedAt})
	if res.Error != nil {
		return apperr.FromDB("update ride status", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return ErrRideEnded
	}
	return nil
}

func (s *gormStore) InsertPosition(ctx context.Context, p *Position) error {
	return apperr.FromDB("insert position", s.db.WithContext(ctx).Create(p).Error, nil)
}

func (s *gormStore) LatestPositions(ctx context.Context, rideID uuid.UUID) ([]Position, error) {
	db := s.db.WithContext(ctx)
	latest := db.Model(&Position{}).
		Select("user_id, MAX(ts) AS ts").
		Where("ride_id = ?", rideID).
		Group("user_id")

	var rows []Position
	err := db.Table("positions AS p").
		Select("p.*").
		Joins("JOIN (?) AS latest ON latest.user_id = p.user_id AND latest.ts = p.ts", latest).
		Where("p.ride_id = ?", rideID).
		Order("p.user_id ASC, p.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.FromDB("latest positions", err, nil)
	}

	// Two samples can share a timestamp; keep one per rider.
	out := make([]Position, 0, len(rows))
	for i, p := range rows {
		if i > 0 && rows[i-1].UserID == p.UserID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *gormStore) ListActiveOpenRides(ctx context.Context) ([]Ride, error) {
	var list []Ride
	err := s.db.WithContext(ctx).
		Preload("Host").
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC, id ASC")
		}).
		Preload("Members.User").
		Where("status = ? AND visibility = ?", StatusActive, VisibilityOpen).
		Order("created_at DESC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, apperr.FromDB("list public rides", err, nil)
	}
	return list, nil
}

func (s *gormStore) WithRideLock(ctx context.Context, rideID uuid.UUID, mode LockMode, fn func(tx Store, ride *Ride) error) error {
	strength := "SHARE"
	if mode == LockUpdate {
		strength = "UPDATE"
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ride Ride
		err := tx.Clauses(clause.Locking{Strength: strength}).
			First(&ride, "id = ?", rideID).Error
		if err != nil {
			return apperr.FromDB("lock ride", err, ErrRideNotFound)
		}
		return fn(&gormStore{db: tx}, &ride)
	})
	return classify("ride transaction", err)
}

// classify leaves errors already tagged by the store or fn alone and marks
// the rest (begin and commit failures) as transient.
func classify(op string, err error) error {
	var domain *apperr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &domain), errors.Is(err, apperr.ErrTransient), errors.Is(err, apperr.ErrConflict):
		return err
	default:
		return apperr.Transient(op, err)
	}
}
