// Package service contains the business logic for the JoyRoute API.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations, and every multi-row mutation runs through a single
// repo.Transactor transaction.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joyroute/backend/internal/domain"
	"github.com/joyroute/backend/internal/repo"
)

// TripService implements business logic for Trip operations, including the
// trip-day reconciler: after every create or update the set of TripDay rows
// exactly matches the trip's inclusive date range.
type TripService struct {
	tx repo.Transactor
}

// NewTripService constructs a TripService backed by the provided Transactor.
func NewTripService(tx repo.Transactor) *TripService {
	return &TripService{tx: tx}
}

// Create validates and persists a new trip owned by userID, records the
// owner's membership, and creates one TripDay per date in range — all in
// one transaction.
func (s *TripService) Create(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	trip.OwnerID = userID

	var created domain.Trip
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		var err error
		created, err = r.Trips.Create(ctx, trip)
		if err != nil {
			return err
		}
		if err := r.Trips.AddMember(ctx, userID, created.ID); err != nil {
			return err
		}
		return reconcileDays(ctx, r, created)
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// Update validates and persists changes to a trip the user is a member of,
// then reconciles the TripDay set against the (possibly moved) date range.
// Days falling outside the new range are deleted, cascading their events.
func (s *TripService) Update(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	var updated domain.Trip
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, trip.ID); err != nil {
			return err
		}
		var err error
		updated, err = r.Trips.Update(ctx, trip)
		if err != nil {
			return err
		}
		return reconcileDays(ctx, r, updated)
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// GetByID returns a single trip the user is a member of.
func (s *TripService) GetByID(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	var trip domain.Trip
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		var err error
		trip, err = r.Trips.GetForUser(ctx, userID, tripID)
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// ListPaged returns one page of the user's trips plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	var (
		trips []domain.Trip
		total int64
	)
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		var err error
		trips, total, err = r.Trips.ListByUserPaged(ctx, userID, p)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Delete removes a trip the user is a member of. Days, events, lodgings,
// saved places, and membership rows cascade in the database.
func (s *TripService) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, tripID); err != nil {
			return err
		}
		return r.Trips.Delete(ctx, tripID)
	})
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// ListDays returns the trip's days ordered by date ascending.
func (s *TripService) ListDays(ctx context.Context, userID, tripID uuid.UUID) ([]domain.TripDay, error) {
	var days []domain.TripDay
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, tripID); err != nil {
			return err
		}
		var err error
		days, err = r.Days.ListByTrip(ctx, tripID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListDays: %w", err)
	}
	if days == nil {
		days = []domain.TripDay{}
	}
	return days, nil
}

// GetDay returns a single day by ID, scoped to the trip.
func (s *TripService) GetDay(ctx context.Context, userID, tripID, dayID uuid.UUID) (domain.TripDay, error) {
	var day domain.TripDay
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, tripID); err != nil {
			return err
		}
		var err error
		day, err = r.Days.GetByID(ctx, tripID, dayID)
		return err
	})
	if err != nil {
		return domain.TripDay{}, fmt.Errorf("service.TripService.GetDay: %w", err)
	}
	return day, nil
}

// reconcileDays makes the TripDay set for the trip exactly match the
// inclusive [StartDate, EndDate] range:
//
//  1. delete every day whose date falls outside the range (events cascade);
//  2. create a day for every in-range date not already present.
//
// Idempotent: a second call with the same range deletes and creates nothing.
// Lodgings referencing removed dates are intentionally left alone.
func reconcileDays(ctx context.Context, r repo.Repos, trip domain.Trip) error {
	if _, err := r.Days.DeleteOutsideRange(ctx, trip.ID, trip.StartDate, trip.EndDate); err != nil {
		return err
	}

	existing, err := r.Days.ListDates(ctx, trip.ID)
	if err != nil {
		return err
	}
	have := make(map[string]struct{}, len(existing))
	for _, d := range existing {
		have[dateKey(d)] = struct{}{}
	}

	var missing []time.Time
	for d := trip.StartDate; !d.After(trip.EndDate); d = d.AddDate(0, 0, 1) {
		if _, ok := have[dateKey(d)]; !ok {
			missing = append(missing, d)
		}
	}

	return r.Days.BulkCreate(ctx, trip.ID, missing)
}

// dateKey normalizes a timestamp to its calendar date for set membership.
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// validateTrip enforces business rules common to Create and Update.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if trip.StartDate.IsZero() || trip.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	if trip.EndDate.Before(trip.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return nil
}
