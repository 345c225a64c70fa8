package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyroute/backend/internal/domain"
	"github.com/joyroute/backend/internal/repo"
	"github.com/joyroute/backend/internal/service"
)

func intp(n int) *int { return &n }

// dayOf returns a mockTripDayRepo whose GetByID always succeeds.
func dayOf(tripID, dayID uuid.UUID) *mockTripDayRepo {
	return &mockTripDayRepo{
		getByID: func(_ context.Context, _, _ uuid.UUID) (domain.TripDay, error) {
			return domain.TripDay{ID: dayID, TripID: tripID, Date: date(2025, 6, 1)}, nil
		},
	}
}

// eventsAt builds N events with the given positions (nil for unset).
func eventsAt(dayID uuid.UUID, positions ...*int) []domain.Event {
	out := make([]domain.Event, len(positions))
	for i, p := range positions {
		out[i] = domain.Event{ID: uuid.New(), TripDayID: dayID, Type: domain.EventActivity, Position: p}
	}
	return out
}

// ---- Create ----------------------------------------------------------------

func TestEventService_Create_SentinelThenNormalized(t *testing.T) {
	tripID, dayID := uuid.New(), uuid.New()

	// Day already holds two events at positions 1 and 2.
	existing := eventsAt(dayID, intp(1), intp(2))

	var (
		createdWithPosition int
		positionWrites      []domain.EventPosition
	)
	events := &mockEventRepo{
		create: func(_ context.Context, e domain.Event) (domain.Event, error) {
			require.NotNil(t, e.Position)
			createdWithPosition = *e.Position
			e.ID = uuid.New()
			return e, nil
		},
		listByDay: func(_ context.Context, _ uuid.UUID) ([]domain.Event, error) {
			// The new event sorts last: huge position, created most recently.
			newEvent := domain.Event{ID: uuid.New(), TripDayID: dayID, Position: intp(domain.PositionLast)}
			return append(existing, newEvent), nil
		},
		updatePositions: func(_ context.Context, updates []domain.EventPosition) error {
			positionWrites = updates
			return nil
		},
		getByID: func(_ context.Context, _, eventID uuid.UUID) (domain.Event, error) {
			return domain.Event{ID: eventID, TripDayID: dayID, Position: intp(3)}, nil
		},
	}

	svc := service.NewEventService(&stubTx{repos: repo.Repos{
		Trips:  memberTrip(),
		Days:   dayOf(tripID, dayID),
		Events: events,
	}})

	got, err := svc.Create(context.Background(), uuid.New(), tripID, dayID, service.EventInput{
		Type: domain.EventFood,
	})

	require.NoError(t, err)
	// The insert carries the sentinel; the caller sees the normalized slot.
	assert.Equal(t, domain.PositionLast, createdWithPosition)
	require.NotNil(t, got.Position)
	assert.Equal(t, 3, *got.Position)

	// Only the sentinel-positioned event needed a write: 1 and 2 were
	// already dense.
	require.Len(t, positionWrites, 1)
	assert.Equal(t, 3, positionWrites[0].Position)
}

func TestEventService_Create_UnknownType(t *testing.T) {
	svc := service.NewEventService(&stubTx{})

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), uuid.New(), service.EventInput{
		Type: "nap",
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEventService_Create_NegativeDuration(t *testing.T) {
	svc := service.NewEventService(&stubTx{})

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), uuid.New(), service.EventInput{
		Type:            domain.EventActivity,
		DurationMinutes: intp(-5),
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEventService_Create_PlaceWithoutExternalID(t *testing.T) {
	svc := service.NewEventService(&stubTx{})

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), uuid.New(), service.EventInput{
		Type:  domain.EventActivity,
		Place: &domain.PlaceSuggestion{Name: "somewhere"},
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Delete ----------------------------------------------------------------

func TestEventService_Delete_ClosesPositionGap(t *testing.T) {
	tripID, dayID := uuid.New(), uuid.New()

	// After deleting the event at position 2, the survivors sit at 1 and 3.
	survivors := eventsAt(dayID, intp(1), intp(3))

	var positionWrites []domain.EventPosition
	events := &mockEventRepo{
		delete: func(_ context.Context, _, _ uuid.UUID) error { return nil },
		listByDay: func(_ context.Context, _ uuid.UUID) ([]domain.Event, error) {
			return survivors, nil
		},
		updatePositions: func(_ context.Context, updates []domain.EventPosition) error {
			positionWrites = updates
			return nil
		},
	}

	svc := service.NewEventService(&stubTx{repos: repo.Repos{
		Trips:  memberTrip(),
		Days:   dayOf(tripID, dayID),
		Events: events,
	}})

	err := svc.Delete(context.Background(), uuid.New(), tripID, dayID, uuid.New())

	require.NoError(t, err)
	// Only the event at 3 moves (to 2); the event at 1 is untouched.
	require.Len(t, positionWrites, 1)
	assert.Equal(t, survivors[1].ID, positionWrites[0].EventID)
	assert.Equal(t, 2, positionWrites[0].Position)
}

// ---- Reorder ---------------------------------------------------------------

func TestEventService_Reorder_AssignsDensePositions(t *testing.T) {
	tripID, dayID := uuid.New(), uuid.New()
	existing := eventsAt(dayID, intp(1), intp(2), intp(3))
	e1, e2, e3 := existing[0], existing[1], existing[2]

	var positionWrites []domain.EventPosition
	events := &mockEventRepo{
		listByDay: func(_ context.Context, _ uuid.UUID) ([]domain.Event, error) {
			return existing, nil
		},
		updatePositions: func(_ context.Context, updates []domain.EventPosition) error {
			positionWrites = updates
			return nil
		},
	}

	svc := service.NewEventService(&stubTx{repos: repo.Repos{
		Trips:  memberTrip(),
		Days:   dayOf(tripID, dayID),
		Events: events,
	}})

	err := svc.Reorder(context.Background(), uuid.New(), tripID, dayID,
		[]uuid.UUID{e3.ID, e1.ID, e2.ID})

	require.NoError(t, err)
	require.Len(t, positionWrites, 3)
	assert.Equal(t, domain.EventPosition{EventID: e3.ID, Position: 1}, positionWrites[0])
	assert.Equal(t, domain.EventPosition{EventID: e1.ID, Position: 2}, positionWrites[1])
	assert.Equal(t, domain.EventPosition{EventID: e2.ID, Position: 3}, positionWrites[2])
}

func TestEventService_Reorder_RejectsPartialSet(t *testing.T) {
	tripID, dayID := uuid.New(), uuid.New()
	existing := eventsAt(dayID, intp(1), intp(2), intp(3))

	var wrote bool
	events := &mockEventRepo{
		listByDay: func(_ context.Context, _ uuid.UUID) ([]domain.Event, error) {
			return existing, nil
		},
		updatePositions: func(_ context.Context, _ []domain.EventPosition) error {
			wrote = true
			return nil
		},
	}

	svc := service.NewEventService(&stubTx{repos: repo.Repos{
		Trips:  memberTrip(),
		Days:   dayOf(tripID, dayID),
		Events: events,
	}})

	err := svc.Reorder(context.Background(), uuid.New(), tripID, dayID,
		[]uuid.UUID{existing[0].ID, existing[1].ID})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, wrote, "a rejected reorder must not write positions")
}

func TestEventService_Reorder_RejectsForeignEvent(t *testing.T) {
	tripID, dayID := uuid.New(), uuid.New()
	existing := eventsAt(dayID, intp(1), intp(2))

	events := &mockEventRepo{
		listByDay: func(_ context.Context, _ uuid.UUID) ([]domain.Event, error) {
			return existing, nil
		},
	}

	svc := service.NewEventService(&stubTx{repos: repo.Repos{
		Trips:  memberTrip(),
		Days:   dayOf(tripID, dayID),
		Events: events,
	}})

	err := svc.Reorder(context.Background(), uuid.New(), tripID, dayID,
		[]uuid.UUID{existing[0].ID, uuid.New()})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEventService_Reorder_RejectsDuplicateID(t *testing.T) {
	tripID, dayID := uuid.New(), uuid.New()
	existing := eventsAt(dayID, intp(1), intp(2))

	events := &mockEventRepo{
		listByDay: func(_ context.Context, _ uuid.UUID) ([]domain.Event, error) {
			return existing, nil
		},
	}

	svc := service.NewEventService(&stubTx{repos: repo.Repos{
		Trips:  memberTrip(),
		Days:   dayOf(tripID, dayID),
		Events: events,
	}})

	err := svc.Reorder(context.Background(), uuid.New(), tripID, dayID,
		[]uuid.UUID{existing[0].ID, existing[0].ID})

	assert.ErrorIs(t, err, domain.ErrValidation)
}
