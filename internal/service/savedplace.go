package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/joyroute/backend/internal/domain"
	"github.com/joyroute/backend/internal/repo"
)

// SavedPlaceService implements business logic for a trip's saved places.
type SavedPlaceService struct {
	tx repo.Transactor
}

// NewSavedPlaceService constructs a SavedPlaceService backed by the provided Transactor.
func NewSavedPlaceService(tx repo.Transactor) *SavedPlaceService {
	return &SavedPlaceService{tx: tx}
}

// Save get-or-creates the place by external id and links it to the trip.
// Returns domain.ErrConflict if the place is already saved for the trip.
func (s *SavedPlaceService) Save(ctx context.Context, userID, tripID uuid.UUID, suggestion domain.PlaceSuggestion) (domain.SavedPlace, error) {
	if suggestion.ExternalID == "" {
		return domain.SavedPlace{}, fmt.Errorf("%w: place external_id is required", domain.ErrValidation)
	}

	var saved domain.SavedPlace
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, tripID); err != nil {
			return err
		}
		place, err := r.Places.GetOrCreate(ctx, suggestionToPlace(suggestion))
		if err != nil {
			return err
		}
		saved, err = r.SavedPlaces.Create(ctx, domain.SavedPlace{
			TripID:    tripID,
			PlaceID:   place.ID,
			SavedByID: &userID,
		})
		return err
	})
	if err != nil {
		return domain.SavedPlace{}, fmt.Errorf("service.SavedPlaceService.Save: %w", err)
	}
	return saved, nil
}

// ListByTrip returns the trip's saved places, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *SavedPlaceService) ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]domain.SavedPlace, error) {
	var saved []domain.SavedPlace
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, tripID); err != nil {
			return err
		}
		var err error
		saved, err = r.SavedPlaces.ListByTrip(ctx, tripID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.SavedPlaceService.ListByTrip: %w", err)
	}
	if saved == nil {
		saved = []domain.SavedPlace{}
	}
	return saved, nil
}

// Delete removes a saved place by ID, scoped to the trip.
func (s *SavedPlaceService) Delete(ctx context.Context, userID, tripID, savedID uuid.UUID) error {
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, tripID); err != nil {
			return err
		}
		return r.SavedPlaces.Delete(ctx, tripID, savedID)
	})
	if err != nil {
		return fmt.Errorf("service.SavedPlaceService.Delete: %w", err)
	}
	return nil
}
