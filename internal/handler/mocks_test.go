package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/joyroute/backend/internal/auth"
	"github.com/joyroute/backend/internal/domain"
	"github.com/joyroute/backend/internal/handler"
	"github.com/joyroute/backend/internal/service"
)

// The mocks below implement the handler's Servicer interfaces with
// per-method function fields. Tests assign only the methods they expect
// to be called; an unexpected call panics on the nil field, which fails
// the test loudly.

type mockAuth struct {
	register             func(ctx context.Context, input service.RegisterInput) (domain.User, error)
	login                func(ctx context.Context, email, password string) (domain.User, string, error)
	getUser              func(ctx context.Context, userID uuid.UUID) (domain.User, error)
	verifyEmail          func(ctx context.Context, token string) error
	resendVerification   func(ctx context.Context, userID uuid.UUID) error
	requestPasswordReset func(ctx context.Context, email string) error
	confirmPasswordReset func(ctx context.Context, token, password string) error
}

var _ handler.AuthServicer = (*mockAuth)(nil)

func (m *mockAuth) Register(ctx context.Context, input service.RegisterInput) (domain.User, error) {
	return m.register(ctx, input)
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	return m.login(ctx, email, password)
}

func (m *mockAuth) GetUser(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	return m.getUser(ctx, userID)
}

func (m *mockAuth) VerifyEmail(ctx context.Context, token string) error {
	return m.verifyEmail(ctx, token)
}

func (m *mockAuth) ResendVerification(ctx context.Context, userID uuid.UUID) error {
	return m.resendVerification(ctx, userID)
}

func (m *mockAuth) RequestPasswordReset(ctx context.Context, email string) error {
	return m.requestPasswordReset(ctx, email)
}

func (m *mockAuth) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	return m.confirmPasswordReset(ctx, token, password)
}

type mockTrips struct {
	create   func(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	getByID  func(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	list     func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update   func(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	delete   func(ctx context.Context, userID, tripID uuid.UUID) error
	listDays func(ctx context.Context, userID, tripID uuid.UUID) ([]domain.TripDay, error)
	getDay   func(ctx context.Context, userID, tripID, dayID uuid.UUID) (domain.TripDay, error)
}

var _ handler.TripServicer = (*mockTrips)(nil)

func (m *mockTrips) Create(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, userID, trip)
}

func (m *mockTrips) GetByID(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, userID, tripID)
}

func (m *mockTrips) ListPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.list(ctx, userID, p)
}

func (m *mockTrips) Update(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, userID, trip)
}

func (m *mockTrips) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	return m.delete(ctx, userID, tripID)
}

func (m *mockTrips) ListDays(ctx context.Context, userID, tripID uuid.UUID) ([]domain.TripDay, error) {
	return m.listDays(ctx, userID, tripID)
}

func (m *mockTrips) GetDay(ctx context.Context, userID, tripID, dayID uuid.UUID) (domain.TripDay, error) {
	return m.getDay(ctx, userID, tripID, dayID)
}

type mockEvents struct {
	create    func(ctx context.Context, userID, tripID, dayID uuid.UUID, input service.EventInput) (domain.Event, error)
	update    func(ctx context.Context, userID, tripID, dayID, eventID uuid.UUID, input service.EventInput) (domain.Event, error)
	delete    func(ctx context.Context, userID, tripID, dayID, eventID uuid.UUID) error
	listByDay func(ctx context.Context, userID, tripID, dayID uuid.UUID) ([]domain.Event, error)
	reorder   func(ctx context.Context, userID, tripID, dayID uuid.UUID, orderedIDs []uuid.UUID) error
}

var _ handler.EventServicer = (*mockEvents)(nil)

func (m *mockEvents) Create(ctx context.Context, userID, tripID, dayID uuid.UUID, input service.EventInput) (domain.Event, error) {
	return m.create(ctx, userID, tripID, dayID, input)
}

func (m *mockEvents) Update(ctx context.Context, userID, tripID, dayID, eventID uuid.UUID, input service.EventInput) (domain.Event, error) {
	return m.update(ctx, userID, tripID, dayID, eventID, input)
}

func (m *mockEvents) Delete(ctx context.Context, userID, tripID, dayID, eventID uuid.UUID) error {
	return m.delete(ctx, userID, tripID, dayID, eventID)
}

func (m *mockEvents) ListByDay(ctx context.Context, userID, tripID, dayID uuid.UUID) ([]domain.Event, error) {
	return m.listByDay(ctx, userID, tripID, dayID)
}

func (m *mockEvents) Reorder(ctx context.Context, userID, tripID, dayID uuid.UUID, orderedIDs []uuid.UUID) error {
	return m.reorder(ctx, userID, tripID, dayID, orderedIDs)
}

type mockRoutes struct {
	optimize func(ctx context.Context, userID, tripID, dayID uuid.UUID) (domain.RouteProposal, error)
}

var _ handler.RouteServicer = (*mockRoutes)(nil)

func (m *mockRoutes) Optimize(ctx context.Context, userID, tripID, dayID uuid.UUID) (domain.RouteProposal, error) {
	return m.optimize(ctx, userID, tripID, dayID)
}

type mockLodgings struct {
	create     func(ctx context.Context, userID, tripID uuid.UUID, lodging domain.Lodging, place *domain.PlaceSuggestion) (domain.Lodging, error)
	listByTrip func(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Lodging, error)
	delete     func(ctx context.Context, userID, tripID, lodgingID uuid.UUID) error
}

var _ handler.LodgingServicer = (*mockLodgings)(nil)

func (m *mockLodgings) Create(ctx context.Context, userID, tripID uuid.UUID, lodging domain.Lodging, place *domain.PlaceSuggestion) (domain.Lodging, error) {
	return m.create(ctx, userID, tripID, lodging, place)
}

func (m *mockLodgings) ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Lodging, error) {
	return m.listByTrip(ctx, userID, tripID)
}

func (m *mockLodgings) Delete(ctx context.Context, userID, tripID, lodgingID uuid.UUID) error {
	return m.delete(ctx, userID, tripID, lodgingID)
}

type mockSavedPlaces struct {
	save       func(ctx context.Context, userID, tripID uuid.UUID, suggestion domain.PlaceSuggestion) (domain.SavedPlace, error)
	listByTrip func(ctx context.Context, userID, tripID uuid.UUID) ([]domain.SavedPlace, error)
	delete     func(ctx context.Context, userID, tripID, savedID uuid.UUID) error
}

var _ handler.SavedPlaceServicer = (*mockSavedPlaces)(nil)

func (m *mockSavedPlaces) Save(ctx context.Context, userID, tripID uuid.UUID, suggestion domain.PlaceSuggestion) (domain.SavedPlace, error) {
	return m.save(ctx, userID, tripID, suggestion)
}

func (m *mockSavedPlaces) ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]domain.SavedPlace, error) {
	return m.listByTrip(ctx, userID, tripID)
}

func (m *mockSavedPlaces) Delete(ctx context.Context, userID, tripID, savedID uuid.UUID) error {
	return m.delete(ctx, userID, tripID, savedID)
}

type mockPlaces struct {
	search func(ctx context.Context, query string, autocomplete bool, limit int) ([]domain.PlaceSuggestion, error)
}

var _ handler.PlaceSearchServicer = (*mockPlaces)(nil)

func (m *mockPlaces) Search(ctx context.Context, query string, autocomplete bool, limit int) ([]domain.PlaceSuggestion, error) {
	return m.search(ctx, query, autocomplete, limit)
}

type mockExport struct {
	export func(ctx context.Context, userID, tripID uuid.UUID) ([]service.ItineraryRow, error)
}

var _ handler.ExportServicer = (*mockExport)(nil)

func (m *mockExport) Export(ctx context.Context, userID, tripID uuid.UUID) ([]service.ItineraryRow, error) {
	return m.export(ctx, userID, tripID)
}

// testServer wires a Server over mocks and a real token manager, then
// exposes the assembled router plus a valid access token for the test user.
type testServer struct {
	auth        *mockAuth
	trips       *mockTrips
	events      *mockEvents
	routes      *mockRoutes
	lodgings    *mockLodgings
	savedPlaces *mockSavedPlaces
	places      *mockPlaces
	export      *mockExport

	router http.Handler
	userID uuid.UUID
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tokens := auth.NewManager("test-secret", "joyroute-test", time.Hour, time.Hour, time.Hour)
	userID := uuid.New()
	token, err := tokens.Generate(userID, "ada@example.com", auth.PurposeAccess)
	require.NoError(t, err)

	ts := &testServer{
		auth:        &mockAuth{},
		trips:       &mockTrips{},
		events:      &mockEvents{},
		routes:      &mockRoutes{},
		lodgings:    &mockLodgings{},
		savedPlaces: &mockSavedPlaces{},
		places:      &mockPlaces{},
		export:      &mockExport{},
		userID:      userID,
		token:       token,
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := handler.NewServer(
		ts.auth, ts.trips, ts.events, ts.routes,
		ts.lodgings, ts.savedPlaces, ts.places, ts.export,
		tokens, log,
	)
	ts.router = srv.Routes()
	return ts
}

// do performs an authenticated request against the router.
func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := newRequest(t, method, path, body)
	req.Header.Set("Authorization", "Bearer "+ts.token)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

// doAnon performs a request without credentials.
func (ts *testServer) doAnon(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := newRequest(t, method, path, body)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func newRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// decodeBody unmarshals the recorded response body into T.
func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
