// Package mock is a deterministic Transport for tests: no randomness, no
// network. Waypoints are synthesized as a straight line between the two
// vertiports recorded via SeedLocation, echoing the node/location
// synthesis original_source/server/src/router/router_utils/mock.rs used
// for its (now-omitted, see DESIGN.md Open Question 4) legacy router
// graph fixtures, adapted here to the two-point best_path shape spec.md
// §6 actually specifies.
package mock

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/geoclient"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/pathing"
)

// Transport is an in-memory geoclient.Transport. NoPath marks vertiport
// pairs that must report ErrorTypeNoPathFound, for exercising pkg/pathing's
// no-path branch without a real oracle.
type Transport struct {
	mu sync.Mutex

	locations map[uuid.UUID]flightplan.Point3D
	noPath    map[[2]uuid.UUID]bool
	updates   []geoclient.UpdateFlightPathRequest
}

// NewTransport builds an empty mock transport.
func NewTransport() *Transport {
	return &Transport{
		locations: make(map[uuid.UUID]flightplan.Point3D),
		noPath:    make(map[[2]uuid.UUID]bool),
	}
}

// SeedLocation records vertiportID's 3D location, used to synthesize a
// straight-line path and its great-circle-adjacent planar distance.
func (t *Transport) SeedLocation(vertiportID uuid.UUID, loc flightplan.Point3D) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.locations[vertiportID] = loc
}

// SeedNoPath marks origin->target as having no viable route, so BestPath
// returns ErrorTypeNoPathFound for that pair.
func (t *Transport) SeedNoPath(origin, target uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.noPath[[2]uuid.UUID{origin, target}] = true
}

// Updates returns every UpdateFlightPath call recorded so far, for test
// assertions.
func (t *Transport) Updates() []geoclient.UpdateFlightPathRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]geoclient.UpdateFlightPathRequest, len(t.updates))
	copy(out, t.updates)
	return out
}

// BestPath returns a single straight-line route between the seeded
// locations of origin and target.
func (t *Transport) BestPath(ctx context.Context, originVertiportID, targetVertiportID uuid.UUID, timeStart, timeEnd time.Time) ([]pathing.Route, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.noPath[[2]uuid.UUID{originVertiportID, targetVertiportID}] {
		return nil, apperrors.New(apperrors.ErrorTypeNoPathFound, "no route available between vertiports")
	}

	origin, ok := t.locations[originVertiportID]
	if !ok {
		return nil, apperrors.NewNotFoundError("vertiport location")
	}
	target, ok := t.locations[targetVertiportID]
	if !ok {
		return nil, apperrors.NewNotFoundError("vertiport location")
	}

	return []pathing.Route{{
		Waypoints:      []flightplan.Point3D{origin, target},
		DistanceMeters: planarDistanceMeters(origin, target),
	}}, nil
}

// CheckIntersection always reports no intersection unless the origin/
// target pair was seeded with SeedNoPath, mirroring that marker's use as
// a stand-in for "airspace unavailable."
func (t *Transport) CheckIntersection(ctx context.Context, path []flightplan.Point3D, timeStart, timeEnd time.Time, originID, targetID uuid.UUID) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.noPath[[2]uuid.UUID{originID, targetID}], nil
}

// UpdateFlightPath records req for later assertion.
func (t *Transport) UpdateFlightPath(ctx context.Context, req geoclient.UpdateFlightPathRequest) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.updates = append(t.updates, req)
	return nil
}

// planarDistanceMeters treats latitude/longitude degrees as meters on a
// local tangent plane; adequate for a deterministic test fixture, not a
// geodesic calculation.
func planarDistanceMeters(a, b flightplan.Point3D) float64 {
	dx := a.Latitude - b.Latitude
	dy := a.Longitude - b.Longitude
	dz := float64(a.AltitudeMeters - b.AltitudeMeters)
	return math.Sqrt(dx*dx+dy*dy+dz*dz) * 111000
}
