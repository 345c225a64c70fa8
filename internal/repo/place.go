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

// PlaceRepo defines the persistence operations for Places.
// Places come from the external geocoding provider and are deduplicated by
// external_id: every reference path (events, lodgings, saved places) goes
// through GetOrCreate.
type PlaceRepo interface {
	// GetOrCreate inserts the place, or returns the existing row when a
	// place with the same external_id already exists. On conflict the
	// name/address/coordinates are refreshed from the incoming record, so
	// stale provider data self-heals on the next reference.
	GetOrCreate(ctx context.Context, place domain.Place) (domain.Place, error)

	// GetByID retrieves a single place by its UUID primary key.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Place, error)
}

// pgPlaceRepo is the Postgres implementation of PlaceRepo.
type pgPlaceRepo struct {
	db db
}

// NewPlaceRepo constructs a PlaceRepo backed by the provided db connection.
func NewPlaceRepo(db db) PlaceRepo {
	return &pgPlaceRepo{db: db}
}

// GetOrCreate upserts by external_id. The DO UPDATE clause (rather than
// DO NOTHING) forces RETURNING to fire for the existing row as well.
func (r *pgPlaceRepo) GetOrCreate(ctx context.Context, place domain.Place) (domain.Place, error) {
	const q = `
		INSERT INTO places (external_id, name, description, address, latitude, longitude)
		VALUES (@external_id, @name, @description, @address, @latitude, @longitude)
		ON CONFLICT (external_id) DO UPDATE
		SET name      = EXCLUDED.name,
		    address   = EXCLUDED.address,
		    latitude  = EXCLUDED.latitude,
		    longitude = EXCLUDED.longitude,
		    updated_at = now()
		RETURNING id, external_id, name, description, address, latitude, longitude, created_at, updated_at`

	args := pgx.NamedArgs{
		"external_id": place.ExternalID,
		"name":        place.Name,
		"description": place.Description,
		"address":     place.Address,
		"latitude":    place.Latitude,
		"longitude":   place.Longitude,
	}

	result, err := scanPlace(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.GetOrCreate: %w", err)
	}
	return result, nil
}

func (r *pgPlaceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Place, error) {
	const q = `
		SELECT id, external_id, name, description, address, latitude, longitude, created_at, updated_at
		FROM places
		WHERE id = @id`

	result, err := scanPlace(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.GetByID: %w", err)
	}
	return result, nil
}

// scanPlace maps a single database row into a domain.Place.
func scanPlace(s scanner) (domain.Place, error) {
	var (
		p    domain.Place
		id   pgtype.UUID
		desc pgtype.Text
		addr pgtype.Text
		lat  pgtype.Float8
		lng  pgtype.Float8
	)

	err := s.Scan(&id, &p.ExternalID, &p.Name, &desc, &addr, &lat, &lng, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Place{}, domain.ErrNotFound
		}
		return domain.Place{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	if desc.Valid {
		p.Description = desc.String
	}
	if addr.Valid {
		p.Address = addr.String
	}
	if lat.Valid {
		v := lat.Float64
		p.Latitude = &v
	}
	if lng.Valid {
		v := lng.Float64
		p.Longitude = &v
	}

	return p, nil
}
