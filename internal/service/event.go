package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/joyroute/backend/internal/domain"
	"github.com/joyroute/backend/internal/repo"
)

// EventService implements business logic for Event operations and owns the
// position invariant: within one trip day the positions of all events form
// a dense 1..N sequence after every reconciling operation. Each mutation
// runs in one transaction with the normalize pass that repairs the
// ordering, so readers never observe a gap or duplicate.
type EventService struct {
	tx repo.Transactor
}

// NewEventService constructs an EventService backed by the provided Transactor.
func NewEventService(tx repo.Transactor) *EventService {
	return &EventService{tx: tx}
}

// EventInput carries the caller-supplied fields for creating or updating an
// event. Place, when set, is get-or-created by external id before the event
// row is written.
type EventInput struct {
	Type            domain.EventType
	StartTime       *string
	DurationMinutes *int
	Notes           string
	Place           *domain.PlaceSuggestion
}

// Create inserts a new event at the end of the day. The event is written
// with the sentinel "last" position and the whole day is normalized in the
// same transaction, so the new event lands at position N+1.
func (s *EventService) Create(ctx context.Context, userID, tripID, dayID uuid.UUID, input EventInput) (domain.Event, error) {
	if err := validateEventInput(input); err != nil {
		return domain.Event{}, err
	}

	var created domain.Event
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, tripID); err != nil {
			return err
		}
		day, err := r.Days.GetByID(ctx, tripID, dayID)
		if err != nil {
			return err
		}

		event := domain.Event{
			TripDayID:       day.ID,
			Type:            input.Type,
			StartTime:       input.StartTime,
			DurationMinutes: input.DurationMinutes,
			Notes:           input.Notes,
		}
		if input.Place != nil {
			place, err := r.Places.GetOrCreate(ctx, suggestionToPlace(*input.Place))
			if err != nil {
				return err
			}
			event.PlaceID = &place.ID
		}

		// Sentinel position: far past any real index, so normalize sorts
		// the new event last.
		last := domain.PositionLast
		event.Position = &last

		created, err = r.Events.Create(ctx, event)
		if err != nil {
			return err
		}
		if err := normalizePositions(ctx, r, day.ID); err != nil {
			return err
		}

		// Re-read so the caller sees the normalized position.
		created, err = r.Events.GetByID(ctx, day.ID, created.ID)
		return err
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Create: %w", err)
	}
	return created, nil
}

// Update overwrites the mutable fields of an event. Position is not
// editable here — ordering changes go through Reorder.
func (s *EventService) Update(ctx context.Context, userID, tripID, dayID, eventID uuid.UUID, input EventInput) (domain.Event, error) {
	if err := validateEventInput(input); err != nil {
		return domain.Event{}, err
	}

	var updated domain.Event
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, tripID); err != nil {
			return err
		}
		if _, err := r.Days.GetByID(ctx, tripID, dayID); err != nil {
			return err
		}
		existing, err := r.Events.GetByID(ctx, dayID, eventID)
		if err != nil {
			return err
		}

		existing.Type = input.Type
		existing.StartTime = input.StartTime
		existing.DurationMinutes = input.DurationMinutes
		existing.Notes = input.Notes
		if input.Place != nil {
			place, err := r.Places.GetOrCreate(ctx, suggestionToPlace(*input.Place))
			if err != nil {
				return err
			}
			existing.PlaceID = &place.ID
		}

		updated, err = r.Events.Update(ctx, existing)
		return err
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes an event and closes the position gap it leaves by
// normalizing the remaining siblings in the same transaction.
func (s *EventService) Delete(ctx context.Context, userID, tripID, dayID, eventID uuid.UUID) error {
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, tripID); err != nil {
			return err
		}
		if _, err := r.Days.GetByID(ctx, tripID, dayID); err != nil {
			return err
		}
		if err := r.Events.Delete(ctx, dayID, eventID); err != nil {
			return err
		}
		return normalizePositions(ctx, r, dayID)
	})
	if err != nil {
		return fmt.Errorf("service.EventService.Delete: %w", err)
	}
	return nil
}

// ListByDay returns the day's events in position order.
// Always returns a non-nil slice so callers can safely range over it.
func (s *EventService) ListByDay(ctx context.Context, userID, tripID, dayID uuid.UUID) ([]domain.Event, error) {
	var events []domain.Event
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, tripID); err != nil {
			return err
		}
		if _, err := r.Days.GetByID(ctx, tripID, dayID); err != nil {
			return err
		}
		var err error
		events, err = r.Events.ListByDay(ctx, dayID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.EventService.ListByDay: %w", err)
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}

// Reorder assigns positions 1..N to the day's events following the given id
// order. The list must contain exactly the ids of the day's current events;
// a partial or mismatched list is rejected with no mutation. The explicit
// order is authoritative and already dense, so no normalize pass follows.
func (s *EventService) Reorder(ctx context.Context, userID, tripID, dayID uuid.UUID, orderedIDs []uuid.UUID) error {
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, tripID); err != nil {
			return err
		}
		if _, err := r.Days.GetByID(ctx, tripID, dayID); err != nil {
			return err
		}
		events, err := r.Events.ListByDay(ctx, dayID)
		if err != nil {
			return err
		}

		if len(orderedIDs) != len(events) {
			return fmt.Errorf("%w: reorder list has %d ids, day has %d events",
				domain.ErrValidation, len(orderedIDs), len(events))
		}
		belongs := make(map[uuid.UUID]struct{}, len(events))
		for _, e := range events {
			belongs[e.ID] = struct{}{}
		}
		seen := make(map[uuid.UUID]struct{}, len(orderedIDs))
		for _, id := range orderedIDs {
			if _, ok := belongs[id]; !ok {
				return fmt.Errorf("%w: event %s does not belong to this day", domain.ErrValidation, id)
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: event %s appears more than once", domain.ErrValidation, id)
			}
			seen[id] = struct{}{}
		}

		updates := make([]domain.EventPosition, len(orderedIDs))
		for i, id := range orderedIDs {
			updates[i] = domain.EventPosition{EventID: id, Position: i + 1}
		}
		return r.Events.UpdatePositions(ctx, updates)
	})
	if err != nil {
		return fmt.Errorf("service.EventService.Reorder: %w", err)
	}
	return nil
}

// normalizePositions reassigns the positions of all events under a day to a
// dense 1..N sequence. The repo returns events ordered by current position
// ascending with NULLs last, ties broken by creation order, so iteration
// order is the authoritative relative order. Only events whose position
// actually changes are written.
func normalizePositions(ctx context.Context, r repo.Repos, dayID uuid.UUID) error {
	events, err := r.Events.ListByDay(ctx, dayID)
	if err != nil {
		return err
	}

	var updates []domain.EventPosition
	for i, e := range events {
		want := i + 1
		if e.Position == nil || *e.Position != want {
			updates = append(updates, domain.EventPosition{EventID: e.ID, Position: want})
		}
	}
	return r.Events.UpdatePositions(ctx, updates)
}

// suggestionToPlace converts a provider suggestion into the Place record
// that GetOrCreate deduplicates by external id.
func suggestionToPlace(s domain.PlaceSuggestion) domain.Place {
	return domain.Place{
		ExternalID: s.ExternalID,
		Name:       s.Name,
		Address:    s.Address,
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
	}
}

// validateEventInput enforces business rules common to Create and Update.
func validateEventInput(input EventInput) error {
	if !input.Type.Valid() {
		return fmt.Errorf("%w: unknown event type %q", domain.ErrValidation, input.Type)
	}
	if input.DurationMinutes != nil && *input.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration_minutes must not be negative", domain.ErrValidation)
	}
	if input.Place != nil && input.Place.ExternalID == "" {
		return fmt.Errorf("%w: place external_id is required", domain.ErrValidation)
	}
	return nil
}
