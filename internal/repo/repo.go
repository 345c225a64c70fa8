// Package repo contains all database access logic for the JoyRoute API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// scanner is the subset of pgx.Row / pgx.Rows needed by the scan helpers,
// so one helper serves both single-row and multi-row queries.
type scanner interface {
	Scan(dest ...any) error
}

// Repos bundles every repository over one shared connection or transaction.
// The service layer receives a Repos inside an InTx callback, so every repo
// call within the callback shares the same transaction.
type Repos struct {
	Users       UserRepo
	Trips       TripRepo
	Days        TripDayRepo
	Events      EventRepo
	Lodgings    LodgingRepo
	Places      PlaceRepo
	SavedPlaces SavedPlaceRepo
}

// NewRepos constructs every repository over the given connection.
func NewRepos(db db) Repos {
	return Repos{
		Users:       NewUserRepo(db),
		Trips:       NewTripRepo(db),
		Days:        NewTripDayRepo(db),
		Events:      NewEventRepo(db),
		Lodgings:    NewLodgingRepo(db),
		Places:      NewPlaceRepo(db),
		SavedPlaces: NewSavedPlaceRepo(db),
	}
}

// Transactor runs a function against a Repos bundle inside one database
// transaction. The service layer depends on this interface, not pgx, which
// lets unit tests substitute a stub that passes mock repos straight through.
type Transactor interface {
	// InTx begins a transaction, calls fn with repositories bound to it,
	// and commits. Any error from fn rolls the transaction back and is
	// returned unchanged.
	InTx(ctx context.Context, fn func(r Repos) error) error
}

// pgTransactor is the production Transactor backed by a pgx pool.
type pgTransactor struct {
	pool *pgxpool.Pool
}

// NewTransactor constructs a Transactor over the given pool.
func NewTransactor(pool *pgxpool.Pool) Transactor {
	return &pgTransactor{pool: pool}
}

func (t *pgTransactor) InTx(ctx context.Context, fn func(r Repos) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.Transactor: begin: %w", err)
	}
	// Rollback after commit is a no-op; this covers every early return.
	defer tx.Rollback(ctx)

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.Transactor: commit: %w", err)
	}
	return nil
}
