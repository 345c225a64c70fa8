package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/joyroute/backend/internal/domain"
)

// TripRepo defines the persistence operations for Trips and trip membership.
// All single-trip reads are scoped by userID so a caller can never see a
// trip they are not a member of.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetForUser retrieves a trip the given user is a member of.
	// Returns domain.ErrNotFound if the trip does not exist or the user has
	// no membership row for it.
	GetForUser(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)

	// ListByUserPaged returns one page of the user's trips ordered by
	// start_date descending, plus the total count.
	ListByUserPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of an existing trip and returns
	// the updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Days, events, lodgings, saved places, and
	// membership rows cascade. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddMember inserts a membership row linking the user to the trip.
	// Idempotent — no error if the membership already exists.
	AddMember(ctx context.Context, userID, tripID uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (name, start_date, end_date, owner_id)
		VALUES (@name, @start_date, @end_date, @owner_id)
		RETURNING id, name, start_date, end_date, owner_id, created_at, updated_at`

	args := pgx.NamedArgs{
		"name":       trip.Name,
		"start_date": trip.StartDate,
		"end_date":   trip.EndDate,
		"owner_id":   trip.OwnerID,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetForUser(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT t.id, t.name, t.start_date, t.end_date, t.owner_id, t.created_at, t.updated_at
		FROM trips t
		JOIN user_trips ut ON ut.trip_id = t.id
		WHERE t.id = @trip_id AND ut.user_id = @user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetForUser: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) ListByUserPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const countQ = `
		SELECT count(*)
		FROM trips t
		JOIN user_trips ut ON ut.trip_id = t.id
		WHERE ut.user_id = @user_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"user_id": userID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByUserPaged: count: %w", err)
	}

	const q = `
		SELECT t.id, t.name, t.start_date, t.end_date, t.owner_id, t.created_at, t.updated_at
		FROM trips t
		JOIN user_trips ut ON ut.trip_id = t.id
		WHERE ut.user_id = @user_id
		ORDER BY t.start_date DESC, t.created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"user_id": userID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByUserPaged: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListByUserPaged: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByUserPaged: rows: %w", err)
	}

	return trips, total, nil
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET name       = @name,
		    start_date = @start_date,
		    end_date   = @end_date,
		    updated_at = now()
		WHERE id = @id
		RETURNING id, name, start_date, end_date, owner_id, created_at, updated_at`

	args := pgx.NamedArgs{
		"id":         trip.ID,
		"name":       trip.Name,
		"start_date": trip.StartDate,
		"end_date":   trip.EndDate,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) AddMember(ctx context.Context, userID, tripID uuid.UUID) error {
	const q = `
		INSERT INTO user_trips (user_id, trip_id)
		VALUES (@user_id, @trip_id)
		ON CONFLICT (user_id, trip_id) DO NOTHING`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"user_id": userID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.AddMember: %w", err)
	}
	return nil
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t       domain.Trip
		id      pgtype.UUID
		ownerID pgtype.UUID
		start   pgtype.Date
		end     pgtype.Date
	)

	err := s.Scan(&id, &t.Name, &start, &end, &ownerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OwnerID = uuid.UUID(ownerID.Bytes)
	t.StartDate = start.Time
	t.EndDate = end.Time

	return t, nil
}
