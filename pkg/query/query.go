// Package query validates the inbound flight query and invokes itinerary
// search (spec.md §4.7). Grounded on
// original_source/server/src/grpc/api/query_flight.rs: the same
// UUID/time-window/advance-notice checks in the same order, reimplemented
// against internal/validation and internal/errors instead of a
// hand-rolled FlightQueryError enum.
package query

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/internal/metrics"
	"github.com/aetheric-oss/svc-scheduler-sub000/internal/validation"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/availability"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/itinerary"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/pathing"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/scheduler/constants"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/timeslot"
)

// Request is the raw, untrusted inbound query shape, mirroring
// QueryFlightRequest's field set.
type Request struct {
	OriginVertiportID     string `validate:"required"`
	TargetVertiportID     string `validate:"required"`
	EarliestDepartureTime *time.Time
	LatestArrivalTime     *time.Time
}

// FlightQuery is the sanitized, validated query, the Go realization of
// spec.md §3's FlightQuery entity.
type FlightQuery struct {
	OriginVertiportID     uuid.UUID
	TargetVertiportID     uuid.UUID
	EarliestDeparture     time.Time
	LatestArrival         time.Time
	RequiredLoadingTime   time.Duration
	RequiredUnloadingTime time.Duration
}

// Validate sanitizes req into a FlightQuery, per original's
// TryFrom<QueryFlightRequest>: vertiport UUIDs must parse, both times
// must be present with earliest < latest, the window must not exceed
// constants.MaxQueryWindow, and earliest must be at least
// constants.AdvanceNoticeMinimum past now.
func Validate(req Request, now time.Time) (FlightQuery, error) {
	if err := validation.Struct(req); err != nil {
		return FlightQuery{}, err
	}

	originID, err := validation.UUID(req.OriginVertiportID, apperrors.ErrorTypeVertiportID, "origin vertiport id")
	if err != nil {
		return FlightQuery{}, err
	}
	targetID, err := validation.UUID(req.TargetVertiportID, apperrors.ErrorTypeVertiportID, "target vertiport id")
	if err != nil {
		return FlightQuery{}, err
	}

	if req.LatestArrivalTime == nil {
		return FlightQuery{}, apperrors.New(apperrors.ErrorTypeTime, "latest arrival time not provided")
	}
	if req.EarliestDepartureTime == nil {
		return FlightQuery{}, apperrors.New(apperrors.ErrorTypeTime, "earliest departure time not provided")
	}

	earliest := *req.EarliestDepartureTime
	latest := *req.LatestArrivalTime

	if err := validation.TimeWindow(earliest, latest, constants.MaxQueryWindow, constants.AdvanceNoticeMinimum, now); err != nil {
		return FlightQuery{}, err
	}

	return FlightQuery{
		OriginVertiportID:     originID,
		TargetVertiportID:     targetID,
		EarliestDeparture:     earliest,
		LatestArrival:         latest,
		RequiredLoadingTime:   constants.LoadingBlock,
		RequiredUnloadingTime: constants.UnloadingBlock,
	}, nil
}

// Dependencies bundles the collaborators Run needs to turn a validated
// FlightQuery into candidate itineraries: origin/target vertiport and
// vertipad lookups, the fleet, existing flight plans, and the pathing
// client. Metrics is optional; a nil value disables recording.
type Dependencies struct {
	OriginVertiport availability.Vertiport
	OriginVertipads []availability.Vertipad
	TargetVertiport availability.Vertiport
	TargetVertipads []availability.Vertipad
	Fleet           []availability.Aircraft
	ExistingPlans   []flightplan.Schedule
	PathingClient   *pathing.Client
	Metrics         *metrics.Registry
}

// Run executes a validated FlightQuery end to end: vertiport availability
// at both ends, aircraft availability, pairing, and itinerary search, per
// spec.md §4.7's "invokes (6)" step.
func Run(ctx context.Context, q FlightQuery, deps Dependencies) ([]itinerary.Itinerary, error) {
	window, err := timeslot.New(q.EarliestDeparture, q.LatestArrival)
	if err != nil {
		return nil, err
	}

	originPads, err := availability.VertiportTimeslots(deps.OriginVertiport, deps.OriginVertipads, deps.ExistingPlans, window, q.RequiredLoadingTime)
	if err != nil {
		return nil, err
	}
	targetPads, err := availability.VertiportTimeslots(deps.TargetVertiport, deps.TargetVertipads, deps.ExistingPlans, window, q.RequiredUnloadingTime)
	if err != nil {
		return nil, err
	}

	pairs, err := itinerary.BuildPairs(ctx, q.OriginVertiportID, q.TargetVertiportID, originPads, targetPads, deps.PathingClient)
	if err != nil {
		return nil, err
	}

	aircraftGaps, err := availability.AircraftTimeslots(deps.Fleet, deps.ExistingPlans, q.EarliestDeparture, window)
	if err != nil {
		return nil, err
	}

	searchStart := time.Now()
	itineraries, err := itinerary.Search(ctx, pairs, aircraftGaps, deps.PathingClient)
	if deps.Metrics != nil {
		deps.Metrics.ItinerarySearch.Observe(time.Since(searchStart).Seconds())
	}
	return itineraries, err
}
