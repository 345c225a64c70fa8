package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/joyroute/backend/internal/domain"
)

// SavedPlaceRepo defines the persistence operations for a trip's saved places.
type SavedPlaceRepo interface {
	// Create links a place to a trip. Returns domain.ErrConflict if the
	// place is already saved for that trip (unique trip_id, place_id).
	Create(ctx context.Context, saved domain.SavedPlace) (domain.SavedPlace, error)

	// ListByTrip returns all saved places for a trip, newest first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.SavedPlace, error)

	// Delete removes a saved place by ID, scoped to the given trip.
	Delete(ctx context.Context, tripID, savedID uuid.UUID) error
}

// pgSavedPlaceRepo is the Postgres implementation of SavedPlaceRepo.
type pgSavedPlaceRepo struct {
	db db
}

// NewSavedPlaceRepo constructs a SavedPlaceRepo backed by the provided db connection.
func NewSavedPlaceRepo(db db) SavedPlaceRepo {
	return &pgSavedPlaceRepo{db: db}
}

const savedPlaceColumns = `
	sp.id, sp.trip_id, sp.place_id, sp.saved_by, sp.created_at,
	p.id, p.external_id, p.name, p.description, p.address, p.latitude, p.longitude,
	p.created_at, p.updated_at`

func (r *pgSavedPlaceRepo) Create(ctx context.Context, saved domain.SavedPlace) (domain.SavedPlace, error) {
	const q = `
		INSERT INTO trip_saved_places (trip_id, place_id, saved_by)
		VALUES (@trip_id, @place_id, @saved_by)
		RETURNING id`

	args := pgx.NamedArgs{
		"trip_id":  saved.TripID,
		"place_id": saved.PlaceID,
		"saved_by": saved.SavedByID,
	}

	var id pgtype.UUID
	if err := r.db.QueryRow(ctx, q, args).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation: the place is already saved for this trip.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.SavedPlace{}, fmt.Errorf("repo.SavedPlaceRepo.Create: %w", domain.ErrConflict)
		}
		return domain.SavedPlace{}, fmt.Errorf("repo.SavedPlaceRepo.Create: %w", err)
	}

	created, err := r.getByID(ctx, saved.TripID, uuid.UUID(id.Bytes))
	if err != nil {
		return domain.SavedPlace{}, fmt.Errorf("repo.SavedPlaceRepo.Create: %w", err)
	}
	return created, nil
}

func (r *pgSavedPlaceRepo) getByID(ctx context.Context, tripID, savedID uuid.UUID) (domain.SavedPlace, error) {
	q := `
		SELECT ` + savedPlaceColumns + `
		FROM trip_saved_places sp
		JOIN places p ON p.id = sp.place_id
		WHERE sp.id = @saved_id AND sp.trip_id = @trip_id`

	return scanSavedPlace(r.db.QueryRow(ctx, q, pgx.NamedArgs{"saved_id": savedID, "trip_id": tripID}))
}

func (r *pgSavedPlaceRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.SavedPlace, error) {
	q := `
		SELECT ` + savedPlaceColumns + `
		FROM trip_saved_places sp
		JOIN places p ON p.id = sp.place_id
		WHERE sp.trip_id = @trip_id
		ORDER BY sp.created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.SavedPlaceRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	var saved []domain.SavedPlace
	for rows.Next() {
		sp, err := scanSavedPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SavedPlaceRepo.ListByTrip: scan: %w", err)
		}
		saved = append(saved, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SavedPlaceRepo.ListByTrip: rows: %w", err)
	}

	return saved, nil
}

func (r *pgSavedPlaceRepo) Delete(ctx context.Context, tripID, savedID uuid.UUID) error {
	const q = `DELETE FROM trip_saved_places WHERE id = @saved_id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"saved_id": savedID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.SavedPlaceRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.SavedPlaceRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanSavedPlace maps a saved-place row (with its JOINed place) into a domain.SavedPlace.
func scanSavedPlace(s scanner) (domain.SavedPlace, error) {
	var (
		sp      domain.SavedPlace
		id      pgtype.UUID
		tripID  pgtype.UUID
		placeID pgtype.UUID
		savedBy pgtype.UUID

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
		&id, &tripID, &placeID, &savedBy, &sp.CreatedAt,
		&pID, &pExtID, &pName, &pDesc, &pAddr, &pLat, &pLng, &pCreated, &pUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SavedPlace{}, domain.ErrNotFound
		}
		return domain.SavedPlace{}, err
	}

	sp.ID = uuid.UUID(id.Bytes)
	sp.TripID = uuid.UUID(tripID.Bytes)
	sp.PlaceID = uuid.UUID(placeID.Bytes)
	if savedBy.Valid {
		v := uuid.UUID(savedBy.Bytes)
		sp.SavedByID = &v
	}

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
	sp.Place = &place

	return sp, nil
}
