package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/joyroute/backend/internal/domain"
	"github.com/joyroute/backend/internal/geoapify"
	"github.com/joyroute/backend/internal/repo"
)

// RoutePlanner is the slice of the geoapify client the route service
// depends on. Defined here so tests can inject a fake provider.
type RoutePlanner interface {
	PlanRoute(ctx context.Context, plan geoapify.PlanRequest) (geoapify.PlanResult, error)
}

// RouteService turns a trip day into a route-optimization request and
// reconciles the provider's (possibly partial) response into a proposed
// total ordering over the day's events. The proposal is returned to the
// caller; applying it goes through EventService.Reorder.
type RouteService struct {
	tx      repo.Transactor
	planner RoutePlanner
	mode    string
}

// NewRouteService constructs a RouteService. mode is the travel mode sent
// to the provider; empty falls back to "drive".
func NewRouteService(tx repo.Transactor, planner RoutePlanner, mode string) *RouteService {
	if mode == "" {
		mode = "drive"
	}
	return &RouteService{tx: tx, planner: planner, mode: mode}
}

// daySnapshot is the state read from the database before calling the
// provider. The read runs in its own transaction so the HTTP call never
// holds a database transaction open.
type daySnapshot struct {
	events  []domain.Event
	lodging *domain.Lodging
}

// Optimize builds and sends the optimization request for the day and
// reconciles the response.
//
// Precondition: the day must have at least three events, or at least two
// events plus a lodging covering its date — a route needs a fixed start
// point and at least one stop to optimize. Violations are validation
// errors. Provider failures surface as domain.ErrOptimizer; partial
// routability is not an error and degrades to appending the unrouted
// events with a warning.
func (s *RouteService) Optimize(ctx context.Context, userID, tripID, dayID uuid.UUID) (domain.RouteProposal, error) {
	snap, err := s.loadDay(ctx, userID, tripID, dayID)
	if err != nil {
		return domain.RouteProposal{}, fmt.Errorf("service.RouteService.Optimize: %w", err)
	}

	if err := checkOptimizable(snap); err != nil {
		return domain.RouteProposal{}, fmt.Errorf("service.RouteService.Optimize: %w", err)
	}

	plan, anchorEvent, err := s.buildPlan(snap)
	if err != nil {
		return domain.RouteProposal{}, fmt.Errorf("service.RouteService.Optimize: %w", err)
	}

	result, err := s.planner.PlanRoute(ctx, plan)
	if err != nil {
		// Transport error, non-2xx status, or malformed body — all are the
		// provider's failure, reported as such and never a crash.
		return domain.RouteProposal{}, fmt.Errorf("service.RouteService.Optimize: %w: %w", domain.ErrOptimizer, err)
	}

	proposal := reconcileOrder(snap.events, anchorEvent, result)
	return proposal, nil
}

// loadDay reads the day's events (in position order) and the lodging
// covering its date, inside one read transaction.
func (s *RouteService) loadDay(ctx context.Context, userID, tripID, dayID uuid.UUID) (daySnapshot, error) {
	var snap daySnapshot
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Trips.GetForUser(ctx, userID, tripID); err != nil {
			return err
		}
		day, err := r.Days.GetByID(ctx, tripID, dayID)
		if err != nil {
			return err
		}

		snap.events, err = r.Events.ListByDay(ctx, dayID)
		if err != nil {
			return err
		}

		lodging, err := r.Lodgings.FindCovering(ctx, tripID, day.Date)
		switch {
		case err == nil:
			snap.lodging = &lodging
		case errors.Is(err, domain.ErrNotFound):
			// No lodging covers this date; the first event anchors instead.
		default:
			return err
		}
		return nil
	})
	return snap, err
}

// checkOptimizable enforces the minimum-input precondition.
func checkOptimizable(snap daySnapshot) error {
	hasLodgingAnchor := snap.lodging != nil && snap.lodging.Place != nil && snap.lodging.Place.HasCoordinates()
	if len(snap.events) >= 3 {
		return nil
	}
	if hasLodgingAnchor && len(snap.events) >= 2 {
		return nil
	}
	return fmt.Errorf("%w: a day needs at least 3 events, or 2 events plus lodging, to optimize", domain.ErrValidation)
}

// buildPlan chooses the anchor ("agent") and job list:
//
//   - with a routable lodging, the lodging's place is the start location and
//     every event with a placed location becomes a job;
//   - otherwise the first event in position order anchors the route and the
//     remaining placed events become jobs.
//
// Events without coordinates are left out of the job list entirely; the
// reconciliation step appends them afterwards. anchorEvent is non-nil only
// in the no-lodging case.
func (s *RouteService) buildPlan(snap daySnapshot) (geoapify.PlanRequest, *domain.Event, error) {
	var (
		start       [2]float64
		anchorEvent *domain.Event
		jobSource   []domain.Event
	)

	if snap.lodging != nil && snap.lodging.Place != nil && snap.lodging.Place.HasCoordinates() {
		start = [2]float64{*snap.lodging.Place.Longitude, *snap.lodging.Place.Latitude}
		jobSource = snap.events
	} else {
		first := snap.events[0]
		if first.Place == nil || !first.Place.HasCoordinates() {
			return geoapify.PlanRequest{}, nil, fmt.Errorf(
				"%w: without lodging the first event must have a located place to anchor the route",
				domain.ErrValidation)
		}
		anchorEvent = &first
		start = [2]float64{*first.Place.Longitude, *first.Place.Latitude}
		jobSource = snap.events[1:]
	}

	jobs := make([]geoapify.Job, 0, len(jobSource))
	for _, e := range jobSource {
		if e.Place == nil || !e.Place.HasCoordinates() {
			continue
		}
		jobs = append(jobs, geoapify.Job{
			ID:       e.ID.String(),
			Location: [2]float64{*e.Place.Longitude, *e.Place.Latitude},
			Duration: geoapify.JobDurationSeconds,
		})
	}

	plan := geoapify.PlanRequest{
		Mode: s.mode,
		Agents: []geoapify.Agent{{
			StartLocation: start,
			TimeWindows:   [][2]int{{0, geoapify.DayWindowSeconds}},
		}},
		Jobs: jobs,
	}
	return plan, anchorEvent, nil
}

// reconcileOrder merges the provider's routed job order back into a total
// ordering over all of the day's events:
//
//  1. routed ids come first, in the provider's visit order (ids the
//     provider invented, and duplicates, are dropped defensively);
//  2. if the anchor was an event it is fixed at position 1 by construction;
//  3. every event absent from the routed set — placeless, or dropped by the
//     provider — is appended in its prior relative order.
//
// The result is always a permutation of exactly the day's event ids.
func reconcileOrder(events []domain.Event, anchorEvent *domain.Event, result geoapify.PlanResult) domain.RouteProposal {
	belongs := make(map[uuid.UUID]struct{}, len(events))
	for _, e := range events {
		belongs[e.ID] = struct{}{}
	}

	ordered := make([]uuid.UUID, 0, len(events))
	placed := make(map[uuid.UUID]struct{}, len(events))

	if anchorEvent != nil {
		ordered = append(ordered, anchorEvent.ID)
		placed[anchorEvent.ID] = struct{}{}
	}

	for _, raw := range result.JobOrder {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		if _, ok := belongs[id]; !ok {
			continue
		}
		if _, dup := placed[id]; dup {
			continue
		}
		ordered = append(ordered, id)
		placed[id] = struct{}{}
	}

	unrouted := 0
	for _, e := range events {
		if _, ok := placed[e.ID]; ok {
			continue
		}
		ordered = append(ordered, e.ID)
		placed[e.ID] = struct{}{}
		unrouted++
	}

	proposal := domain.RouteProposal{
		OrderedEventIDs: ordered,
		TotalDistanceKm: result.DistanceMeters / 1000,
		TotalTimeHours:  result.TimeSeconds / 3600,
	}
	if unrouted > 0 {
		proposal.Warning = strconv.Itoa(unrouted) +
			" event(s) could not be routed and were appended to the end of the day"
	}
	return proposal
}
