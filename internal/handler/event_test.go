package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyroute/backend/internal/domain"
	"github.com/joyroute/backend/internal/service"
)

func TestCreateEvent(t *testing.T) {
	ts := newTestServer(t)

	tripID, dayID := uuid.New(), uuid.New()
	ts.events.create = func(_ context.Context, userID, gotTrip, gotDay uuid.UUID, input service.EventInput) (domain.Event, error) {
		assert.Equal(t, ts.userID, userID)
		assert.Equal(t, tripID, gotTrip)
		assert.Equal(t, dayID, gotDay)
		assert.Equal(t, domain.EventFood, input.Type)
		assert.Equal(t, "lunch at the market", input.Notes)
		pos := 1
		return domain.Event{ID: uuid.New(), TripDayID: gotDay, Type: input.Type, Position: &pos}, nil
	}

	rec := ts.do(t, http.MethodPost, fmt.Sprintf("/trips/%s/days/%s/events", tripID, dayID), map[string]any{
		"type":  "food",
		"notes": "lunch at the market",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody[domain.Event](t, rec)
	assert.Equal(t, domain.EventFood, body.Type)
	require.NotNil(t, body.Position)
	assert.Equal(t, 1, *body.Position)
}

func TestCreateEvent_EmptyTypeDefaultsToOther(t *testing.T) {
	ts := newTestServer(t)

	tripID, dayID := uuid.New(), uuid.New()
	ts.events.create = func(_ context.Context, _, _, _ uuid.UUID, input service.EventInput) (domain.Event, error) {
		assert.Equal(t, domain.EventOther, input.Type)
		return domain.Event{ID: uuid.New(), Type: input.Type}, nil
	}

	rec := ts.do(t, http.MethodPost, fmt.Sprintf("/trips/%s/days/%s/events", tripID, dayID), map[string]any{})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDeleteEvent(t *testing.T) {
	ts := newTestServer(t)

	tripID, dayID, eventID := uuid.New(), uuid.New(), uuid.New()
	var deleted uuid.UUID
	ts.events.delete = func(_ context.Context, _, _, _, id uuid.UUID) error {
		deleted = id
		return nil
	}

	rec := ts.do(t, http.MethodDelete, fmt.Sprintf("/trips/%s/days/%s/events/%s", tripID, dayID, eventID), nil)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, eventID, deleted)
}

func TestReorderEvents_ReturnsRefreshedDay(t *testing.T) {
	ts := newTestServer(t)

	tripID, dayID := uuid.New(), uuid.New()
	e1, e2, e3 := uuid.New(), uuid.New(), uuid.New()

	var reordered []uuid.UUID
	ts.events.reorder = func(_ context.Context, _, _, gotDay uuid.UUID, orderedIDs []uuid.UUID) error {
		assert.Equal(t, dayID, gotDay)
		reordered = orderedIDs
		return nil
	}
	pos1, pos2, pos3 := 1, 2, 3
	ts.events.listByDay = func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) ([]domain.Event, error) {
		return []domain.Event{
			{ID: e3, TripDayID: dayID, Position: &pos1},
			{ID: e1, TripDayID: dayID, Position: &pos2},
			{ID: e2, TripDayID: dayID, Position: &pos3},
		}, nil
	}

	rec := ts.do(t, http.MethodPost, "/trips/"+tripID.String()+"/events/reorder", map[string]any{
		"trip_day_id": dayID,
		"event_ids":   []uuid.UUID{e3, e1, e2},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uuid.UUID{e3, e1, e2}, reordered)
	body := decodeBody[[]domain.Event](t, rec)
	require.Len(t, body, 3)
	assert.Equal(t, e3, body[0].ID)
}

func TestReorderEvents_MissingDayID(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/trips/"+uuid.NewString()+"/events/reorder", map[string]any{
		"event_ids": []uuid.UUID{uuid.New()},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody[map[string]map[string]string](t, rec)
	assert.Equal(t, "trip_day_id is required", body["error"]["message"])
}

func TestReorderEvents_PartialSetRejected(t *testing.T) {
	ts := newTestServer(t)

	ts.events.reorder = func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, []uuid.UUID) error {
		return fmt.Errorf("service.EventService.Reorder: %w: event_ids must contain every event of the day exactly once", domain.ErrValidation)
	}

	rec := ts.do(t, http.MethodPost, "/trips/"+uuid.NewString()+"/events/reorder", map[string]any{
		"trip_day_id": uuid.New(),
		"event_ids":   []uuid.UUID{uuid.New()},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody[map[string]map[string]string](t, rec)
	assert.Equal(t, "event_ids must contain every event of the day exactly once", body["error"]["message"])
}

func TestOptimizeRoute_ReturnsProposal(t *testing.T) {
	ts := newTestServer(t)

	tripID, dayID := uuid.New(), uuid.New()
	ordered := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	ts.routes.optimize = func(_ context.Context, userID, gotTrip, gotDay uuid.UUID) (domain.RouteProposal, error) {
		assert.Equal(t, ts.userID, userID)
		assert.Equal(t, tripID, gotTrip)
		assert.Equal(t, dayID, gotDay)
		return domain.RouteProposal{
			OrderedEventIDs: ordered,
			TotalDistanceKm: 12.5,
			TotalTimeHours:  2.0,
			Warning:         "1 event(s) could not be routed and were appended to the end of the day",
		}, nil
	}

	rec := ts.do(t, http.MethodPost, "/trips/"+tripID.String()+"/events/optimize-route", map[string]any{
		"trip_day_id": dayID,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[domain.RouteProposal](t, rec)
	assert.Equal(t, ordered, body.OrderedEventIDs)
	assert.Equal(t, 12.5, body.TotalDistanceKm)
	assert.Equal(t, 2.0, body.TotalTimeHours)
	assert.NotEmpty(t, body.Warning)
}

func TestOptimizeRoute_ProviderDown(t *testing.T) {
	ts := newTestServer(t)

	ts.routes.optimize = func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (domain.RouteProposal, error) {
		return domain.RouteProposal{}, fmt.Errorf("service.RouteService.Optimize: %w: request timed out", domain.ErrOptimizer)
	}

	rec := ts.do(t, http.MethodPost, "/trips/"+uuid.NewString()+"/events/optimize-route", map[string]any{
		"trip_day_id": uuid.New(),
	})

	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody[map[string]map[string]string](t, rec)
	assert.Equal(t, "optimizer_error", body["error"]["code"])
	assert.Equal(t, "route optimizer unavailable", body["error"]["message"])
}
