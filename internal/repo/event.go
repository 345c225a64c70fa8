package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/joyroute/backend/internal/domain"
)

// EventRepo defines the persistence operations for Events.
// All reads join the place row so callers get coordinates without a second
// round trip.
type EventRepo interface {
	// Create inserts a new event and returns the persisted record.
	Create(ctx context.Context, event domain.Event) (domain.Event, error)

	// GetByID retrieves a single event by its UUID, scoped to the given day.
	// Returns domain.ErrNotFound if no event with that ID exists under that day.
	GetByID(ctx context.Context, dayID, eventID uuid.UUID) (domain.Event, error)

	// ListByDay returns all events for a day in normalize order:
	// position ascending with NULLs last, then created_at, then id.
	ListByDay(ctx context.Context, dayID uuid.UUID) ([]domain.Event, error)

	// Update overwrites the mutable fields of an event, scoped to the given
	// day. Position is not touched — use UpdatePositions for that.
	// Returns domain.ErrNotFound if no event with that ID exists under that day.
	Update(ctx context.Context, event domain.Event) (domain.Event, error)

	// Delete removes an event by ID, scoped to the given day.
	// Returns domain.ErrNotFound if no event with that ID exists under that day.
	Delete(ctx context.Context, dayID, eventID uuid.UUID) error

	// UpdatePositions writes the given (event, position) pairs in one batch.
	// Callers are responsible for the pairs forming a valid ordering; the
	// repo just persists them.
	UpdatePositions(ctx context.Context, updates []domain.EventPosition) error
}

// pgEventRepo is the Postgres implementation of EventRepo.
type pgEventRepo struct {
	db db
}

// NewEventRepo constructs an EventRepo backed by the provided db connection.
func NewEventRepo(db db) EventRepo {
	return &pgEventRepo{db: db}
}

// eventColumns is the select list shared by every event read.
// The LEFT JOIN keeps events whose place was deleted (place_id SET NULL).
const eventColumns = `
	e.id, e.trip_day_id, e.place_id, e.type, e.start_time, e.duration_minutes,
	e.position, e.notes, e.created_at, e.updated_at,
	p.id, p.external_id, p.name, p.description, p.address, p.latitude, p.longitude,
	p.created_at, p.updated_at`

func (r *pgEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	const q = `
		INSERT INTO events (trip_day_id, place_id, type, start_time, duration_minutes, position, notes)
		VALUES (@trip_day_id, @place_id, @type, @start_time, @duration_minutes, @position, @notes)
		RETURNING id`

	args := pgx.NamedArgs{
		"trip_day_id":      event.TripDayID,
		"place_id":         event.PlaceID,
		"type":             string(event.Type),
		"start_time":       event.StartTime,
		"duration_minutes": event.DurationMinutes,
		"position":         event.Position,
		"notes":            event.Notes,
	}

	var id pgtype.UUID
	if err := r.db.QueryRow(ctx, q, args).Scan(&id); err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: %w", err)
	}

	// Re-read through the place join so the caller gets the full record.
	created, err := r.GetByID(ctx, event.TripDayID, uuid.UUID(id.Bytes))
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: %w", err)
	}
	return created, nil
}

func (r *pgEventRepo) GetByID(ctx context.Context, dayID, eventID uuid.UUID) (domain.Event, error) {
	q := `
		SELECT ` + eventColumns + `
		FROM events e
		LEFT JOIN places p ON p.id = e.place_id
		WHERE e.id = @event_id AND e.trip_day_id = @day_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"event_id": eventID, "day_id": dayID})
	result, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgEventRepo) ListByDay(ctx context.Context, dayID uuid.UUID) ([]domain.Event, error) {
	q := `
		SELECT ` + eventColumns + `
		FROM events e
		LEFT JOIN places p ON p.id = e.place_id
		WHERE e.trip_day_id = @day_id
		ORDER BY e.position ASC NULLS LAST, e.created_at ASC, e.id ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"day_id": dayID})
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListByDay: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.EventRepo.ListByDay: scan: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListByDay: rows: %w", err)
	}

	return events, nil
}

func (r *pgEventRepo) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	const q = `
		UPDATE events
		SET place_id         = @place_id,
		    type             = @type,
		    start_time       = @start_time,
		    duration_minutes = @duration_minutes,
		    notes            = @notes,
		    updated_at       = now()
		WHERE id = @id AND trip_day_id = @day_id
		RETURNING id`

	args := pgx.NamedArgs{
		"id":               event.ID,
		"day_id":           event.TripDayID,
		"place_id":         event.PlaceID,
		"type":             string(event.Type),
		"start_time":       event.StartTime,
		"duration_minutes": event.DurationMinutes,
		"notes":            event.Notes,
	}

	var id pgtype.UUID
	if err := r.db.QueryRow(ctx, q, args).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, fmt.Errorf("repo.EventRepo.Update: %w", domain.ErrNotFound)
		}
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Update: %w", err)
	}

	updated, err := r.GetByID(ctx, event.TripDayID, event.ID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Update: %w", err)
	}
	return updated, nil
}

func (r *pgEventRepo) Delete(ctx context.Context, dayID, eventID uuid.UUID) error {
	const q = `DELETE FROM events WHERE id = @event_id AND trip_day_id = @day_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"event_id": eventID, "day_id": dayID})
	if err != nil {
		return fmt.Errorf("repo.EventRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.EventRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgEventRepo) UpdatePositions(ctx context.Context, updates []domain.EventPosition) error {
	if len(updates) == 0 {
		return nil
	}

	const q = `UPDATE events SET position = @position, updated_at = now() WHERE id = @id`

	batch := &pgx.Batch{}
	for _, u := range updates {
		batch.Queue(q, pgx.NamedArgs{"id": u.EventID, "position": u.Position})
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	for range updates {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("repo.EventRepo.UpdatePositions: %w", err)
		}
	}
	return nil
}

// formatTimeOfDay renders a Postgres TIME value as "HH:MM".
func formatTimeOfDay(t pgtype.Time) string {
	totalMinutes := t.Microseconds / int64(time.Minute/time.Microsecond)
	return fmt.Sprintf("%02d:%02d", totalMinutes/60, totalMinutes%60)
}

// scanEvent maps an event row (with its LEFT JOINed place) into a domain.Event.
func scanEvent(s scanner) (domain.Event, error) {
	var (
		e       domain.Event
		id      pgtype.UUID
		dayID   pgtype.UUID
		placeID pgtype.UUID
		typ     string
		start   pgtype.Time
		dur     pgtype.Int4
		pos     pgtype.Int4

		pID      pgtype.UUID
		pExtID   pgtype.Text
		pName    pgtype.Text
		pDesc    pgtype.Text
		pAddr    pgtype.Text
		pLat     pgtype.Float8
		pLng     pgtype.Float8
		pCreated pgtype.Timestamptz
		pUpdated pgtype.Timestamptz
	)

	err := s.Scan(
		&id, &dayID, &placeID, &typ, &start, &dur, &pos, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
		&pID, &pExtID, &pName, &pDesc, &pAddr, &pLat, &pLng, &pCreated, &pUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrNotFound
		}
		return domain.Event{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.TripDayID = uuid.UUID(dayID.Bytes)
	e.Type = domain.EventType(typ)
	if placeID.Valid {
		pid := uuid.UUID(placeID.Bytes)
		e.PlaceID = &pid
	}
	if start.Valid {
		v := formatTimeOfDay(start)
		e.StartTime = &v
	}
	if dur.Valid {
		v := int(dur.Int32)
		e.DurationMinutes = &v
	}
	if pos.Valid {
		v := int(pos.Int32)
		e.Position = &v
	}

	if pID.Valid {
		place := domain.Place{
			ID:         uuid.UUID(pID.Bytes),
			ExternalID: pExtID.String,
			Name:       pName.String,
			CreatedAt:  pCreated.Time,
			UpdatedAt:  pUpdated.Time,
		}
		if pDesc.Valid {
			place.Description = pDesc.String
		}
		if pAddr.Valid {
			place.Address = pAddr.String
		}
		if pLat.Valid {
			v := pLat.Float64
			place.Latitude = &v
		}
		if pLng.Valid {
			v := pLng.Float64
			place.Longitude = &v
		}
		e.Place = &place
	}

	return e, nil
}
