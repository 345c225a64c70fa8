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

// TripDayRepo defines the persistence operations for TripDays.
// Rows are written exclusively by the trip-day reconciler; everything else
// only reads.
type TripDayRepo interface {
	// GetByID retrieves a single day by its UUID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no day with that ID exists under that trip.
	GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.TripDay, error)

	// ListByTrip returns all days for a trip ordered by date ascending.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error)

	// ListDates returns the set of dates that currently have a day row for
	// the trip. Used by the reconciler to compute missing dates.
	ListDates(ctx context.Context, tripID uuid.UUID) ([]time.Time, error)

	// DeleteOutsideRange removes every day whose date falls outside the
	// inclusive [start, end] range. Events under removed days cascade.
	// Returns the number of days removed.
	DeleteOutsideRange(ctx context.Context, tripID uuid.UUID, start, end time.Time) (int64, error)

	// BulkCreate inserts one day row per date. Dates must not collide with
	// existing rows — the reconciler guarantees this by creating only
	// missing dates, and unique(trip_id, date) backs it up.
	BulkCreate(ctx context.Context, tripID uuid.UUID, dates []time.Time) error
}

// pgTripDayRepo is the Postgres implementation of TripDayRepo.
type pgTripDayRepo struct {
	db db
}

// NewTripDayRepo constructs a TripDayRepo backed by the provided db connection.
func NewTripDayRepo(db db) TripDayRepo {
	return &pgTripDayRepo{db: db}
}

func (r *pgTripDayRepo) GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.TripDay, error) {
	const q = `
		SELECT id, trip_id, date, created_at
		FROM trip_days
		WHERE id = @day_id AND trip_id = @trip_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"day_id": dayID, "trip_id": tripID})
	result, err := scanTripDay(row)
	if err != nil {
		return domain.TripDay{}, fmt.Errorf("repo.TripDayRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripDayRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error) {
	const q = `
		SELECT id, trip_id, date, created_at
		FROM trip_days
		WHERE trip_id = @trip_id
		ORDER BY date ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripDayRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	var days []domain.TripDay
	for rows.Next() {
		d, err := scanTripDay(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripDayRepo.ListByTrip: scan: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripDayRepo.ListByTrip: rows: %w", err)
	}

	return days, nil
}

func (r *pgTripDayRepo) ListDates(ctx context.Context, tripID uuid.UUID) ([]time.Time, error) {
	const q = `
		SELECT date
		FROM trip_days
		WHERE trip_id = @trip_id
		ORDER BY date ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripDayRepo.ListDates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d pgtype.Date
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("repo.TripDayRepo.ListDates: scan: %w", err)
		}
		dates = append(dates, d.Time)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripDayRepo.ListDates: rows: %w", err)
	}

	return dates, nil
}

func (r *pgTripDayRepo) DeleteOutsideRange(ctx context.Context, tripID uuid.UUID, start, end time.Time) (int64, error) {
	const q = `
		DELETE FROM trip_days
		WHERE trip_id = @trip_id
		AND (date < @start_date OR date > @end_date)`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"trip_id":    tripID,
		"start_date": start,
		"end_date":   end,
	})
	if err != nil {
		return 0, fmt.Errorf("repo.TripDayRepo.DeleteOutsideRange: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *pgTripDayRepo) BulkCreate(ctx context.Context, tripID uuid.UUID, dates []time.Time) error {
	if len(dates) == 0 {
		return nil
	}

	const q = `INSERT INTO trip_days (trip_id, date) VALUES (@trip_id, @date)`

	batch := &pgx.Batch{}
	for _, date := range dates {
		batch.Queue(q, pgx.NamedArgs{"trip_id": tripID, "date": date})
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	for range dates {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("repo.TripDayRepo.BulkCreate: %w", err)
		}
	}
	return nil
}

// scanTripDay maps a single database row into a domain.TripDay.
func scanTripDay(s scanner) (domain.TripDay, error) {
	var (
		d      domain.TripDay
		id     pgtype.UUID
		tripID pgtype.UUID
		date   pgtype.Date
	)

	err := s.Scan(&id, &tripID, &date, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripDay{}, domain.ErrNotFound
		}
		return domain.TripDay{}, err
	}

	d.ID = uuid.UUID(id.Bytes)
	d.TripID = uuid.UUID(tripID.Bytes)
	d.Date = date.Time

	return d, nil
}
