package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/joyroute/backend/internal/domain"
	"github.com/joyroute/backend/internal/repo"
)

// LodgingService implements business logic for Lodging operations and owns
// the overlap policy: at most one lodging covers any date of a trip, and a
// new lodging replaces whatever it overlaps.
type LodgingService struct {
	tx repo.Transactor
}

// NewLodgingService constructs a LodgingService backed by the provided Transactor.
func NewLodgingService(tx repo.Transactor) *LodgingService {
	return &LodgingService{tx: tx}
}

// Create resolves the place, deletes every lodging overlapping the new date
// range, and inserts the new one — all in a single transaction, so readers
// never observe two lodgings covering the same date.
func (s *LodgingService) Create(ctx context.Context, userID, tripID uuid.UUID, lodging domain.Lodging, place *domain.PlaceSuggestion) (domain.Lodging, error) {
	if lodging.ArrivalDate.IsZero() || lodging.DepartureDate.IsZero() {
		return domain.Lodging{}, fmt.Errorf("%w: arrival_date and departure_date are required", domain.ErrValidation)
	}
	if lodging.DepartureDate.Before(lodging.ArrivalDate) {
		return domain.Lodging{}, fmt.Errorf("%w: departure_date must not be before arrival_date", domain.ErrValidation)
	}

	var created domain.Lodging
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, tripID); err != nil {
			return err
		}

		lodging.TripID = tripID
		if place != nil {
			if place.ExternalID == "" {
				return fmt.Errorf("%w: place external_id is required", domain.ErrValidation)
			}
			resolved, err := r.Places.GetOrCreate(ctx, suggestionToPlace(*place))
			if err != nil {
				return err
			}
			lodging.PlaceID = &resolved.ID
		}

		if _, err := r.Lodgings.DeleteOverlapping(ctx, tripID, lodging.ArrivalDate, lodging.DepartureDate); err != nil {
			return err
		}

		var err error
		created, err = r.Lodgings.Create(ctx, lodging)
		return err
	})
	if err != nil {
		return domain.Lodging{}, fmt.Errorf("service.LodgingService.Create: %w", err)
	}
	return created, nil
}

// ListByTrip returns the trip's lodgings ordered by arrival date.
// Always returns a non-nil slice so callers can safely range over it.
func (s *LodgingService) ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Lodging, error) {
	var lodgings []domain.Lodging
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, tripID); err != nil {
			return err
		}
		var err error
		lodgings, err = r.Lodgings.ListByTrip(ctx, tripID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.LodgingService.ListByTrip: %w", err)
	}
	if lodgings == nil {
		lodgings = []domain.Lodging{}
	}
	return lodgings, nil
}

// Delete removes a lodging by ID, scoped to the trip.
func (s *LodgingService) Delete(ctx context.Context, userID, tripID, lodgingID uuid.UUID) error {
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, tripID); err != nil {
			return err
		}
		return r.Lodgings.Delete(ctx, tripID, lodgingID)
	})
	if err != nil {
		return fmt.Errorf("service.LodgingService.Delete: %w", err)
	}
	return nil
}
