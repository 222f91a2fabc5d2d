package storageclient

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
)

// WrapWithBreaker wraps every collection in clients with a shared circuit
// breaker, so a flapping storage-service backend trips the breaker and
// fails fast with ErrorTypeClient instead of piling up retries against a
// dead dependency — the same resilience shape pkg/pathing.Client gives
// the geospatial oracle, per SPEC_FULL.md §2.15.
func WrapWithBreaker(clients Clients) Clients {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "storage-service",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return Clients{
		Vertiport:               &breakerVertiportRepo{clients.Vertiport, breaker},
		Vertipad:                &breakerVertipadRepo{clients.Vertipad, breaker},
		Vehicle:                 &breakerVehicleRepo{clients.Vehicle, breaker},
		FlightPlan:              &breakerFlightPlanRepo{clients.FlightPlan, breaker},
		Itinerary:               &breakerItineraryRepo{clients.Itinerary, breaker},
		ItineraryFlightPlanLink: &breakerLinkRepo{clients.ItineraryFlightPlanLink, breaker},
	}
}

// throughBreaker executes fn via breaker, translating a tripped breaker
// or transport-level failure into ErrorTypeClient. Domain-level outcomes
// (a row genuinely not found, a malformed stored row) are not failures of
// the storage service itself, so they pass through unwrapped and are not
// counted against the breaker — the same not-a-breaker-failure carve-out
// pkg/pathing.Client gives ErrorTypeNoPathFound.
func throughBreaker[T any](breaker *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var domainErr error
	result, err := breaker.Execute(func() (interface{}, error) {
		val, callErr := fn()
		if callErr != nil && isDomainError(callErr) {
			domainErr = callErr
			return val, nil
		}
		return val, callErr
	})
	if domainErr != nil {
		return result.(T), domainErr
	}
	if err != nil {
		var zero T
		return zero, apperrors.Wrap(err, apperrors.ErrorTypeClient, "storage service unavailable")
	}
	return result.(T), nil
}

// isDomainError reports whether err represents a legitimate data-layer
// outcome rather than a storage-service transport failure.
func isDomainError(err error) bool {
	return apperrors.IsType(err, apperrors.ErrorTypeNotFound) || apperrors.IsType(err, apperrors.ErrorTypeData)
}

type breakerVertiportRepo struct {
	repo    VertiportRepo
	breaker *gobreaker.CircuitBreaker
}

func (r *breakerVertiportRepo) Search(ctx context.Context, filter Filter) ([]Vertiport, error) {
	return throughBreaker(r.breaker, func() ([]Vertiport, error) { return r.repo.Search(ctx, filter) })
}

func (r *breakerVertiportRepo) GetByID(ctx context.Context, id uuid.UUID) (Vertiport, error) {
	return throughBreaker(r.breaker, func() (Vertiport, error) { return r.repo.GetByID(ctx, id) })
}

func (r *breakerVertiportRepo) Insert(ctx context.Context, v Vertiport) (Vertiport, error) {
	return throughBreaker(r.breaker, func() (Vertiport, error) { return r.repo.Insert(ctx, v) })
}

func (r *breakerVertiportRepo) Update(ctx context.Context, id uuid.UUID, v Vertiport) (Vertiport, error) {
	return throughBreaker(r.breaker, func() (Vertiport, error) { return r.repo.Update(ctx, id, v) })
}

type breakerVertipadRepo struct {
	repo    VertipadRepo
	breaker *gobreaker.CircuitBreaker
}

func (r *breakerVertipadRepo) Search(ctx context.Context, filter Filter) ([]Vertipad, error) {
	return throughBreaker(r.breaker, func() ([]Vertipad, error) { return r.repo.Search(ctx, filter) })
}

func (r *breakerVertipadRepo) GetByID(ctx context.Context, id uuid.UUID) (Vertipad, error) {
	return throughBreaker(r.breaker, func() (Vertipad, error) { return r.repo.GetByID(ctx, id) })
}

func (r *breakerVertipadRepo) Insert(ctx context.Context, p Vertipad) (Vertipad, error) {
	return throughBreaker(r.breaker, func() (Vertipad, error) { return r.repo.Insert(ctx, p) })
}

func (r *breakerVertipadRepo) Update(ctx context.Context, id uuid.UUID, p Vertipad) (Vertipad, error) {
	return throughBreaker(r.breaker, func() (Vertipad, error) { return r.repo.Update(ctx, id, p) })
}

type breakerVehicleRepo struct {
	repo    VehicleRepo
	breaker *gobreaker.CircuitBreaker
}

func (r *breakerVehicleRepo) Search(ctx context.Context, filter Filter) ([]Vehicle, error) {
	return throughBreaker(r.breaker, func() ([]Vehicle, error) { return r.repo.Search(ctx, filter) })
}

func (r *breakerVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (Vehicle, error) {
	return throughBreaker(r.breaker, func() (Vehicle, error) { return r.repo.GetByID(ctx, id) })
}

func (r *breakerVehicleRepo) Insert(ctx context.Context, v Vehicle) (Vehicle, error) {
	return throughBreaker(r.breaker, func() (Vehicle, error) { return r.repo.Insert(ctx, v) })
}

func (r *breakerVehicleRepo) Update(ctx context.Context, id uuid.UUID, v Vehicle) (Vehicle, error) {
	return throughBreaker(r.breaker, func() (Vehicle, error) { return r.repo.Update(ctx, id, v) })
}

type breakerFlightPlanRepo struct {
	repo    FlightPlanRepo
	breaker *gobreaker.CircuitBreaker
}

func (r *breakerFlightPlanRepo) Search(ctx context.Context, filter Filter) ([]flightplan.Schedule, error) {
	return throughBreaker(r.breaker, func() ([]flightplan.Schedule, error) { return r.repo.Search(ctx, filter) })
}

func (r *breakerFlightPlanRepo) GetByID(ctx context.Context, id uuid.UUID) (flightplan.Schedule, error) {
	return throughBreaker(r.breaker, func() (flightplan.Schedule, error) { return r.repo.GetByID(ctx, id) })
}

func (r *breakerFlightPlanRepo) Insert(ctx context.Context, fp flightplan.Schedule) (uuid.UUID, error) {
	return throughBreaker(r.breaker, func() (uuid.UUID, error) { return r.repo.Insert(ctx, fp) })
}

func (r *breakerFlightPlanRepo) Update(ctx context.Context, id uuid.UUID, fp flightplan.Schedule) error {
	_, err := throughBreaker(r.breaker, func() (struct{}, error) { return struct{}{}, r.repo.Update(ctx, id, fp) })
	return err
}

type breakerItineraryRepo struct {
	repo    ItineraryRepo
	breaker *gobreaker.CircuitBreaker
}

func (r *breakerItineraryRepo) GetByID(ctx context.Context, id uuid.UUID) (Itinerary, error) {
	return throughBreaker(r.breaker, func() (Itinerary, error) { return r.repo.GetByID(ctx, id) })
}

func (r *breakerItineraryRepo) Insert(ctx context.Context, it Itinerary) (uuid.UUID, error) {
	return throughBreaker(r.breaker, func() (uuid.UUID, error) { return r.repo.Insert(ctx, it) })
}

func (r *breakerItineraryRepo) Update(ctx context.Context, id uuid.UUID, it Itinerary) error {
	_, err := throughBreaker(r.breaker, func() (struct{}, error) { return struct{}{}, r.repo.Update(ctx, id, it) })
	return err
}

type breakerLinkRepo struct {
	repo    ItineraryFlightPlanLinkRepo
	breaker *gobreaker.CircuitBreaker
}

func (r *breakerLinkRepo) Link(ctx context.Context, itineraryID uuid.UUID, flightPlanIDs []uuid.UUID) error {
	_, err := throughBreaker(r.breaker, func() (struct{}, error) {
		return struct{}{}, r.repo.Link(ctx, itineraryID, flightPlanIDs)
	})
	return err
}

func (r *breakerLinkRepo) GetLinkedIDs(ctx context.Context, itineraryID uuid.UUID) ([]uuid.UUID, error) {
	return throughBreaker(r.breaker, func() ([]uuid.UUID, error) { return r.repo.GetLinkedIDs(ctx, itineraryID) })
}
