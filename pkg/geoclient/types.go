// Package geoclient is the geospatial-service client spec.md §6
// describes as an external collaborator: best_path, check_intersection,
// update_flight_path. Its Client satisfies pkg/pathing.Oracle directly
// so pkg/pathing's circuit breaker wraps it unmodified; grounded on
// spec.md §6's request/response shapes and
// original_source/server/src/tasks/create_itinerary.rs's
// UpdateFlightPathRequest/CheckIntersectionRequest call sites.
package geoclient

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/pathing"
)

// AircraftType mirrors the geospatial service's aircraft classification,
// carried only on path registration.
type AircraftType int

const (
	AircraftTypeRotorcraft AircraftType = iota
)

// UpdateFlightPathRequest registers a confirmed flight path with the
// geospatial oracle so the airspace is marked occupied for its window.
// Sent by the create-itinerary worker task after the flight plan commits
// to storage.
type UpdateFlightPathRequest struct {
	FlightIdentifier   string
	AircraftIdentifier string
	Path               []flightplan.Point3D
	AircraftType       AircraftType
	TimeStart          time.Time
	TimeEnd            time.Time
}

// Updater is the geospatial service's path-registration call, kept
// separate from pathing.Oracle because only the worker, never the query
// path, needs it.
type Updater interface {
	UpdateFlightPath(ctx context.Context, req UpdateFlightPathRequest) error
}
