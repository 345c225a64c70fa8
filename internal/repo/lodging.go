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

// LodgingRepo defines the persistence operations for Lodgings.
type LodgingRepo interface {
	// Create inserts a new lodging and returns the persisted record.
	Create(ctx context.Context, lodging domain.Lodging) (domain.Lodging, error)

	// GetByID retrieves a single lodging by its UUID, scoped to the given trip.
	GetByID(ctx context.Context, tripID, lodgingID uuid.UUID) (domain.Lodging, error)

	// ListByTrip returns all lodgings for a trip ordered by arrival_date.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Lodging, error)

	// FindCovering returns the lodging whose stay includes the given date,
	// or domain.ErrNotFound when no lodging covers it. The overlap-replace
	// policy guarantees at most one such lodging exists.
	FindCovering(ctx context.Context, tripID uuid.UUID, date time.Time) (domain.Lodging, error)

	// DeleteOverlapping removes every lodging whose stay overlaps the
	// inclusive [arrival, departure] range. Returns the number removed.
	DeleteOverlapping(ctx context.Context, tripID uuid.UUID, arrival, departure time.Time) (int64, error)

	// Delete removes a lodging by ID, scoped to the given trip.
	Delete(ctx context.Context, tripID, lodgingID uuid.UUID) error
}

// pgLodgingRepo is the Postgres implementation of LodgingRepo.
type pgLodgingRepo struct {
	db db
}

// NewLodgingRepo constructs a LodgingRepo backed by the provided db connection.
func NewLodgingRepo(db db) LodgingRepo {
	return &pgLodgingRepo{db: db}
}

const lodgingColumns = `
	l.id, l.trip_id, l.place_id, l.arrival_date, l.departure_date, l.created_at, l.updated_at,
	p.id, p.external_id, p.name, p.description, p.address, p.latitude, p.longitude,
	p.created_at, p.updated_at`

func (r *pgLodgingRepo) Create(ctx context.Context, lodging domain.Lodging) (domain.Lodging, error) {
	const q = `
		INSERT INTO lodgings (trip_id, place_id, arrival_date, departure_date)
		VALUES (@trip_id, @place_id, @arrival_date, @departure_date)
		RETURNING id`

	args := pgx.NamedArgs{
		"trip_id":        lodging.TripID,
		"place_id":       lodging.PlaceID,
		"arrival_date":   lodging.ArrivalDate,
		"departure_date": lodging.DepartureDate,
	}

	var id pgtype.UUID
	if err := r.db.QueryRow(ctx, q, args).Scan(&id); err != nil {
		return domain.Lodging{}, fmt.Errorf("repo.LodgingRepo.Create: %w", err)
	}

	created, err := r.GetByID(ctx, lodging.TripID, uuid.UUID(id.Bytes))
	if err != nil {
		return domain.Lodging{}, fmt.Errorf("repo.LodgingRepo.Create: %w", err)
	}
	return created, nil
}

func (r *pgLodgingRepo) GetByID(ctx context.Context, tripID, lodgingID uuid.UUID) (domain.Lodging, error) {
	q := `
		SELECT ` + lodgingColumns + `
		FROM lodgings l
		LEFT JOIN places p ON p.id = l.place_id
		WHERE l.id = @lodging_id AND l.trip_id = @trip_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"lodging_id": lodgingID, "trip_id": tripID})
	result, err := scanLodging(row)
	if err != nil {
		return domain.Lodging{}, fmt.Errorf("repo.LodgingRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgLodgingRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Lodging, error) {
	q := `
		SELECT ` + lodgingColumns + `
		FROM lodgings l
		LEFT JOIN places p ON p.id = l.place_id
		WHERE l.trip_id = @trip_id
		ORDER BY l.arrival_date ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.LodgingRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	var lodgings []domain.Lodging
	for rows.Next() {
		l, err := scanLodging(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.LodgingRepo.ListByTrip: scan: %w", err)
		}
		lodgings = append(lodgings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LodgingRepo.ListByTrip: rows: %w", err)
	}

	return lodgings, nil
}

func (r *pgLodgingRepo) FindCovering(ctx context.Context, tripID uuid.UUID, date time.Time) (domain.Lodging, error) {
	q := `
		SELECT ` + lodgingColumns + `
		FROM lodgings l
		LEFT JOIN places p ON p.id = l.place_id
		WHERE l.trip_id = @trip_id
		AND l.arrival_date <= @date AND l.departure_date >= @date
		ORDER BY l.arrival_date ASC
		LIMIT 1`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "date": date})
	result, err := scanLodging(row)
	if err != nil {
		return domain.Lodging{}, fmt.Errorf("repo.LodgingRepo.FindCovering: %w", err)
	}
	return result, nil
}

func (r *pgLodgingRepo) DeleteOverlapping(ctx context.Context, tripID uuid.UUID, arrival, departure time.Time) (int64, error) {
	// Two inclusive ranges overlap when each starts no later than the other ends.
	const q = `
		DELETE FROM lodgings
		WHERE trip_id = @trip_id
		AND arrival_date <= @departure
		AND departure_date >= @arrival`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"trip_id":   tripID,
		"arrival":   arrival,
		"departure": departure,
	})
	if err != nil {
		return 0, fmt.Errorf("repo.LodgingRepo.DeleteOverlapping: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *pgLodgingRepo) Delete(ctx context.Context, tripID, lodgingID uuid.UUID) error {
	const q = `DELETE FROM lodgings WHERE id = @lodging_id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"lodging_id": lodgingID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.LodgingRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.LodgingRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanLodging maps a lodging row (with its LEFT JOINed place) into a domain.Lodging.
func scanLodging(s scanner) (domain.Lodging, error) {
	var (
		l         domain.Lodging
		id        pgtype.UUID
		tripID    pgtype.UUID
		placeID   pgtype.UUID
		arrival   pgtype.Date
		departure pgtype.Date

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
		&id, &tripID, &placeID, &arrival, &departure, &l.CreatedAt, &l.UpdatedAt,
		&pID, &pExtID, &pName, &pDesc, &pAddr, &pLat, &pLng, &pCreated, &pUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lodging{}, domain.ErrNotFound
		}
		return domain.Lodging{}, err
	}

	l.ID = uuid.UUID(id.Bytes)
	l.TripID = uuid.UUID(tripID.Bytes)
	l.ArrivalDate = arrival.Time
	l.DepartureDate = departure.Time
	if placeID.Valid {
		pid := uuid.UUID(placeID.Bytes)
		l.PlaceID = &pid
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
		l.Place = &place
	}

	return l, nil
}
