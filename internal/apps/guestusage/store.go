package guestusage

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store interface {
	// FindByDeviceInstall returns nil without error when no record exists.
	// With forUpdate set the row stays locked until the transaction ends.
	FindByDeviceInstall(ctx context.Context, deviceID, installID string, forUpdate bool) (*GuestUsage, error)
	// InsertRecord reports false when a record for the key already exists.
	InsertRecord(ctx context.Context, rec *GuestUsage) (bool, error)
	UpdateRecord(ctx context.Context, rec *GuestUsage) error
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindByDeviceInstall(ctx context.Context, deviceID, installID string, forUpdate bool) (*GuestUsage, error) {
	q := s.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rec GuestUsage
	err := q.Where("device_id = ? AND install_id = ?", deviceID, installID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.FromDB("find guest usage", err, nil)
	}
	return &rec, nil
}

func (s *gormStore) InsertRecord(ctx context.Context, rec *GuestUsage) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_id"}, {Name: "install_id"}},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		return false, apperr.FromDB("insert guest usage", res.Error, nil)
	}
	return res.RowsAffected == 1, nil
}

func (s *gormStore) UpdateRecord(ctx context.Context, rec *GuestUsage) error {
	err := s.db.WithContext(ctx).
		Model(rec).
		Select("ride_count", "window_start", "cooldown_until", "last_ride_at", "last_ride_id", "updated_at").
		Updates(rec).Error
	return apperr.FromDB("update guest usage", err, nil)
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
	if err == nil || errors.Is(err, apperr.ErrTransient) {
		return err
	}
	return apperr.Transient("guest usage transaction", err)
}
