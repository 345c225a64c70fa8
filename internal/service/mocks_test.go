package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joyroute/backend/internal/domain"
	"github.com/joyroute/backend/internal/repo"
)

// The mocks in this file are hand-written test doubles for the repo
// interfaces. Each method is a function field — set only the ones your test
// needs; an unset method panics, which surfaces unexpected calls
// immediately. This is idiomatic Go: no mock generation library required
// for simple cases.

// stubTx is a repo.Transactor that passes its fixed Repos bundle straight
// to the callback. Services under unit test never see a real transaction.
type stubTx struct {
	repos repo.Repos
}

func (s *stubTx) InTx(_ context.Context, fn func(r repo.Repos) error) error {
	return fn(s.repos)
}

var _ repo.Transactor = (*stubTx)(nil)

// ---- trips -----------------------------------------------------------------

type mockTripRepo struct {
	create          func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getForUser      func(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	listByUserPaged func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update          func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete          func(ctx context.Context, id uuid.UUID) error
	addMember       func(ctx context.Context, userID, tripID uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetForUser(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	return m.getForUser(ctx, userID, tripID)
}
func (m *mockTripRepo) ListByUserPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listByUserPaged(ctx, userID, p)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripRepo) AddMember(ctx context.Context, userID, tripID uuid.UUID) error {
	return m.addMember(ctx, userID, tripID)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- trip days -------------------------------------------------------------

type mockTripDayRepo struct {
	getByID            func(ctx context.Context, tripID, dayID uuid.UUID) (domain.TripDay, error)
	listByTrip         func(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error)
	listDates          func(ctx context.Context, tripID uuid.UUID) ([]time.Time, error)
	deleteOutsideRange func(ctx context.Context, tripID uuid.UUID, start, end time.Time) (int64, error)
	bulkCreate         func(ctx context.Context, tripID uuid.UUID, dates []time.Time) error
}

func (m *mockTripDayRepo) GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.TripDay, error) {
	return m.getByID(ctx, tripID, dayID)
}
func (m *mockTripDayRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripDay, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockTripDayRepo) ListDates(ctx context.Context, tripID uuid.UUID) ([]time.Time, error) {
	return m.listDates(ctx, tripID)
}
func (m *mockTripDayRepo) DeleteOutsideRange(ctx context.Context, tripID uuid.UUID, start, end time.Time) (int64, error) {
	return m.deleteOutsideRange(ctx, tripID, start, end)
}
func (m *mockTripDayRepo) BulkCreate(ctx context.Context, tripID uuid.UUID, dates []time.Time) error {
	return m.bulkCreate(ctx, tripID, dates)
}

var _ repo.TripDayRepo = (*mockTripDayRepo)(nil)

// ---- events ----------------------------------------------------------------

type mockEventRepo struct {
	create          func(ctx context.Context, event domain.Event) (domain.Event, error)
	getByID         func(ctx context.Context, dayID, eventID uuid.UUID) (domain.Event, error)
	listByDay       func(ctx context.Context, dayID uuid.UUID) ([]domain.Event, error)
	update          func(ctx context.Context, event domain.Event) (domain.Event, error)
	delete          func(ctx context.Context, dayID, eventID uuid.UUID) error
	updatePositions func(ctx context.Context, updates []domain.EventPosition) error
}

func (m *mockEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	return m.create(ctx, event)
}
func (m *mockEventRepo) GetByID(ctx context.Context, dayID, eventID uuid.UUID) (domain.Event, error) {
	return m.getByID(ctx, dayID, eventID)
}
func (m *mockEventRepo) ListByDay(ctx context.Context, dayID uuid.UUID) ([]domain.Event, error) {
	return m.listByDay(ctx, dayID)
}
func (m *mockEventRepo) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	return m.update(ctx, event)
}
func (m *mockEventRepo) Delete(ctx context.Context, dayID, eventID uuid.UUID) error {
	return m.delete(ctx, dayID, eventID)
}
func (m *mockEventRepo) UpdatePositions(ctx context.Context, updates []domain.EventPosition) error {
	return m.updatePositions(ctx, updates)
}

var _ repo.EventRepo = (*mockEventRepo)(nil)

// ---- lodgings --------------------------------------------------------------

type mockLodgingRepo struct {
	create            func(ctx context.Context, lodging domain.Lodging) (domain.Lodging, error)
	getByID           func(ctx context.Context, tripID, lodgingID uuid.UUID) (domain.Lodging, error)
	listByTrip        func(ctx context.Context, tripID uuid.UUID) ([]domain.Lodging, error)
	findCovering      func(ctx context.Context, tripID uuid.UUID, date time.Time) (domain.Lodging, error)
	deleteOverlapping func(ctx context.Context, tripID uuid.UUID, arrival, departure time.Time) (int64, error)
	delete            func(ctx context.Context, tripID, lodgingID uuid.UUID) error
}

func (m *mockLodgingRepo) Create(ctx context.Context, lodging domain.Lodging) (domain.Lodging, error) {
	return m.create(ctx, lodging)
}
func (m *mockLodgingRepo) GetByID(ctx context.Context, tripID, lodgingID uuid.UUID) (domain.Lodging, error) {
	return m.getByID(ctx, tripID, lodgingID)
}
func (m *mockLodgingRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Lodging, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockLodgingRepo) FindCovering(ctx context.Context, tripID uuid.UUID, date time.Time) (domain.Lodging, error) {
	return m.findCovering(ctx, tripID, date)
}
func (m *mockLodgingRepo) DeleteOverlapping(ctx context.Context, tripID uuid.UUID, arrival, departure time.Time) (int64, error) {
	return m.deleteOverlapping(ctx, tripID, arrival, departure)
}
func (m *mockLodgingRepo) Delete(ctx context.Context, tripID, lodgingID uuid.UUID) error {
	return m.delete(ctx, tripID, lodgingID)
}

var _ repo.LodgingRepo = (*mockLodgingRepo)(nil)

// ---- places ----------------------------------------------------------------

type mockPlaceRepo struct {
	getOrCreate func(ctx context.Context, place domain.Place) (domain.Place, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Place, error)
}

func (m *mockPlaceRepo) GetOrCreate(ctx context.Context, place domain.Place) (domain.Place, error) {
	return m.getOrCreate(ctx, place)
}
func (m *mockPlaceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Place, error) {
	return m.getByID(ctx, id)
}

var _ repo.PlaceRepo = (*mockPlaceRepo)(nil)

// ---- saved places ----------------------------------------------------------

type mockSavedPlaceRepo struct {
	create     func(ctx context.Context, saved domain.SavedPlace) (domain.SavedPlace, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.SavedPlace, error)
	delete     func(ctx context.Context, tripID, savedID uuid.UUID) error
}

func (m *mockSavedPlaceRepo) Create(ctx context.Context, saved domain.SavedPlace) (domain.SavedPlace, error) {
	return m.create(ctx, saved)
}
func (m *mockSavedPlaceRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.SavedPlace, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockSavedPlaceRepo) Delete(ctx context.Context, tripID, savedID uuid.UUID) error {
	return m.delete(ctx, tripID, savedID)
}

var _ repo.SavedPlaceRepo = (*mockSavedPlaceRepo)(nil)

// ---- users -----------------------------------------------------------------

type mockUserRepo struct {
	create             func(ctx context.Context, user domain.User) (domain.User, error)
	getByID            func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByEmail         func(ctx context.Context, email string) (domain.User, error)
	markEmailVerified  func(ctx context.Context, id uuid.UUID) error
	updatePasswordHash func(ctx context.Context, id uuid.UUID, hash string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.create(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	return m.markEmailVerified(ctx, id)
}
func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return m.updatePasswordHash(ctx, id, hash)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// memberTrip returns a mockTripRepo whose GetForUser always succeeds,
// for tests that only need the membership check to pass.
func memberTrip() *mockTripRepo {
	return &mockTripRepo{
		getForUser: func(_ context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
			return domain.Trip{ID: tripID, OwnerID: userID}, nil
		},
	}
}

// date is shorthand for a UTC midnight timestamp.
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
