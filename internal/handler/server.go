// Package handler implements the HTTP handlers for the JoyRoute API.
// All handlers are methods on Server; methods are split into
// domain-specific files (trip.go, event.go, etc.) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/joyroute/backend/internal/auth"
	"github.com/joyroute/backend/internal/domain"
	"github.com/joyroute/backend/internal/middleware"
	"github.com/joyroute/backend/internal/service"
)

// AuthServicer defines the account operations the auth handlers depend on.
// Defining interfaces here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type AuthServicer interface {
	Register(ctx context.Context, input service.RegisterInput) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, string, error)
	GetUser(ctx context.Context, userID uuid.UUID) (domain.User, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, userID uuid.UUID) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, password string) error
}

// TripServicer defines the trip and trip-day operations the handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, userID, tripID uuid.UUID) error
	ListDays(ctx context.Context, userID, tripID uuid.UUID) ([]domain.TripDay, error)
	GetDay(ctx context.Context, userID, tripID, dayID uuid.UUID) (domain.TripDay, error)
}

// EventServicer defines the event operations the handlers depend on.
type EventServicer interface {
	Create(ctx context.Context, userID, tripID, dayID uuid.UUID, input service.EventInput) (domain.Event, error)
	Update(ctx context.Context, userID, tripID, dayID, eventID uuid.UUID, input service.EventInput) (domain.Event, error)
	Delete(ctx context.Context, userID, tripID, dayID, eventID uuid.UUID) error
	ListByDay(ctx context.Context, userID, tripID, dayID uuid.UUID) ([]domain.Event, error)
	Reorder(ctx context.Context, userID, tripID, dayID uuid.UUID, orderedIDs []uuid.UUID) error
}

// RouteServicer defines the route-optimization operation the handlers depend on.
type RouteServicer interface {
	Optimize(ctx context.Context, userID, tripID, dayID uuid.UUID) (domain.RouteProposal, error)
}

// LodgingServicer defines the lodging operations the handlers depend on.
type LodgingServicer interface {
	Create(ctx context.Context, userID, tripID uuid.UUID, lodging domain.Lodging, place *domain.PlaceSuggestion) (domain.Lodging, error)
	ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Lodging, error)
	Delete(ctx context.Context, userID, tripID, lodgingID uuid.UUID) error
}

// SavedPlaceServicer defines the saved-place operations the handlers depend on.
type SavedPlaceServicer interface {
	Save(ctx context.Context, userID, tripID uuid.UUID, suggestion domain.PlaceSuggestion) (domain.SavedPlace, error)
	ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]domain.SavedPlace, error)
	Delete(ctx context.Context, userID, tripID, savedID uuid.UUID) error
}

// PlaceSearchServicer defines the place-search operation the handlers depend on.
type PlaceSearchServicer interface {
	Search(ctx context.Context, query string, autocomplete bool, limit int) ([]domain.PlaceSuggestion, error)
}

// ExportServicer defines the itinerary-export operation the handlers depend on.
type ExportServicer interface {
	Export(ctx context.Context, userID, tripID uuid.UUID) ([]service.ItineraryRow, error)
}

// Server holds every handler dependency and assembles the router.
type Server struct {
	auth        AuthServicer
	trips       TripServicer
	events      EventServicer
	routes      RouteServicer
	lodgings    LodgingServicer
	savedPlaces SavedPlaceServicer
	places      PlaceSearchServicer
	export      ExportServicer

	tokens *auth.Manager
	log    *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	authSvc AuthServicer,
	trips TripServicer,
	events EventServicer,
	routes RouteServicer,
	lodgings LodgingServicer,
	savedPlaces SavedPlaceServicer,
	places PlaceSearchServicer,
	export ExportServicer,
	tokens *auth.Manager,
	log *slog.Logger,
) *Server {
	return &Server{
		auth:        authSvc,
		trips:       trips,
		events:      events,
		routes:      routes,
		lodgings:    lodgings,
		savedPlaces: savedPlaces,
		places:      places,
		export:      export,
		tokens:      tokens,
		log:         log,
	}
}

// Routes mounts every endpoint on a fresh chi router. Everything under
// /trips, /places, and the session endpoints requires authentication.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)
		r.Post("/logout", s.Logout)
		r.Post("/verify-email", s.VerifyEmail)
		r.Post("/password-reset", s.RequestPasswordReset)
		r.Post("/password-reset/confirm", s.ConfirmPasswordReset)

		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuthenticator(s.tokens))
			r.Get("/me", s.Me)
			r.Post("/resend-verification", s.ResendVerification)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthenticator(s.tokens))

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.ListTrips)
			r.Post("/", s.CreateTrip)

			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Put("/", s.UpdateTrip)
				r.Delete("/", s.DeleteTrip)

				r.Get("/export", s.ExportTrip)

				r.Route("/days", func(r chi.Router) {
					r.Get("/", s.ListDays)
					r.Route("/{dayID}", func(r chi.Router) {
						r.Get("/", s.GetDay)
						r.Route("/events", func(r chi.Router) {
							r.Post("/", s.CreateEvent)
							r.Put("/{eventID}", s.UpdateEvent)
							r.Delete("/{eventID}", s.DeleteEvent)
						})
					})
				})

				r.Post("/events/reorder", s.ReorderEvents)
				r.Post("/events/optimize-route", s.OptimizeRoute)

				r.Route("/lodgings", func(r chi.Router) {
					r.Get("/", s.ListLodgings)
					r.Post("/", s.CreateLodging)
					r.Delete("/{lodgingID}", s.DeleteLodging)
				})

				r.Route("/saved-places", func(r chi.Router) {
					r.Get("/", s.ListSavedPlaces)
					r.Post("/", s.SavePlace)
					r.Delete("/{savedID}", s.DeleteSavedPlace)
				})
			})
		})

		r.Get("/places/search", s.SearchPlaces)
	})

	return r
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathUUID parses the named chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}
