package guestusage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/groupride-backend/internal/observability"
	"github.com/google/uuid"
)

var errLostRecord = errors.New("guest usage row missing after insert conflict")

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// TrackRide counts one ride for the (device, install) key. Concurrent calls
// for the same key are serialized by a row lock; the first ride for a key
// races on the unique index and the loser re-reads the winner's row.
func (s *Service) TrackRide(ctx context.Context, deviceID, installID, rideID string) (*GuestUsage, error) {
	deviceID, installID, rideID = strings.TrimSpace(deviceID), strings.TrimSpace(installID), strings.TrimSpace(rideID)
	if deviceID == "" || installID == "" || rideID == "" {
		return nil, apperr.Invalid("device_id, install_id and ride_id are required")
	}

	now := s.now()
	var result GuestUsage
	err := s.store.Transaction(ctx, func(tx Store) error {
		existing, err := tx.FindByDeviceInstall(ctx, deviceID, installID, true)
		if err != nil {
			return err
		}

		if existing == nil {
			rec := Advance(nil, rideID, now)
			rec.ID = uuid.New()
			rec.DeviceID = deviceID
			rec.InstallID = installID

			inserted, err := tx.InsertRecord(ctx, &rec)
			if err != nil {
				return err
			}
			if inserted {
				result = rec
				return nil
			}

			existing, err = tx.FindByDeviceInstall(ctx, deviceID, installID, true)
			if err != nil {
				return err
			}
			if existing == nil {
				return apperr.Transient("track guest ride", errLostRecord)
			}
		}

		next := Advance(existing, rideID, now)
		if err := tx.UpdateRecord(ctx, &next); err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.GuestRidesTracked.Inc()
	if result.RideCount == RideLimit+1 {
		observability.GuestCooldowns.Inc()
	}
	return &result, nil
}

// Status reports the quota for a key without changing it.
func (s *Service) Status(ctx context.Context, deviceID, installID string) (UsageStatus, error) {
	deviceID, installID = strings.TrimSpace(deviceID), strings.TrimSpace(installID)
	if deviceID == "" || installID == "" {
		return UsageStatus{}, apperr.Invalid("device_id and install_id are required")
	}

	rec, err := s.store.FindByDeviceInstall(ctx, deviceID, installID, false)
	if err != nil {
		return UsageStatus{}, err
	}
	return Summarize(deviceID, installID, rec, s.now()), nil
}
