// Package pathing wraps the external geospatial oracle: best-path lookup,
// intersection checks, and flight-time estimation (spec.md §4.5).
// Grounded on original_source/server/src/router/itinerary.rs (the
// BestPathRequest/BestPathError call shape and its NoPathFound/
// ClientError split) and tasks/create_itinerary.rs
// (CheckIntersectionRequest before committing a task). Wrapped with
// sony/gobreaker (a kubernaut dependency) so a flapping geospatial
// backend trips the breaker and fails fast with ClientError instead of
// degrading scheduling quietly, per SPEC_FULL.md §2.15.
package pathing

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/internal/metrics"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/scheduler/constants"

	"github.com/google/uuid"
)

// Route is one candidate path between two vertiports: the waypoints the
// aircraft would fly and the total distance in meters.
type Route struct {
	Waypoints      []flightplan.Point3D
	DistanceMeters float64
}

// Oracle is the geospatial service's contract, grounded on the original's
// best_path/check_intersection pair.
type Oracle interface {
	// BestPath returns one or more routes between origin and target,
	// sorted ascending by distance, valid for [timeStart, timeEnd].
	// Returns apperrors with ErrorTypeNoPathFound when no route exists
	// (e.g. a temporary no-fly zone), or ErrorTypeClient on any transport
	// failure.
	BestPath(ctx context.Context, originVertiportID, targetVertiportID uuid.UUID, timeStart, timeEnd time.Time) ([]Route, error)

	// CheckIntersection reports whether path intersects any reserved
	// airspace between timeStart and timeEnd.
	CheckIntersection(ctx context.Context, path []flightplan.Point3D, timeStart, timeEnd time.Time, originID, targetID uuid.UUID) (bool, error)
}

// Client adapts an Oracle with a circuit breaker: repeated transport
// failures open the breaker and every call fails fast with ErrorTypeClient
// until it resets, rather than piling up retries against a dead
// dependency.
type Client struct {
	oracle  Oracle
	breaker *gobreaker.CircuitBreaker

	// Metrics is optional; when set, BestPath/CheckIntersection record
	// call outcomes against it. A nil Metrics is a no-op.
	Metrics *metrics.Registry
}

// NewClient builds a Client wrapping oracle with a circuit breaker named
// "pathing-oracle", tripping after 5 consecutive failures and resetting
// after 30 seconds half-open.
func NewClient(oracle Oracle) *Client {
	settings := gobreaker.Settings{
		Name:        "pathing-oracle",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &Client{oracle: oracle, breaker: gobreaker.NewCircuitBreaker(settings)}
}

// BestPath executes the oracle's best-path lookup through the circuit
// breaker. NoPathFound results do not count as breaker failures — a
// no-fly zone is a legitimate scheduling outcome, not a dependency
// failure — only ClientError (transport-level) failures do.
func (c *Client) BestPath(ctx context.Context, originVertiportID, targetVertiportID uuid.UUID, timeStart, timeEnd time.Time) ([]Route, error) {
	var noPath bool
	result, err := c.breaker.Execute(func() (interface{}, error) {
		routes, err := c.oracle.BestPath(ctx, originVertiportID, targetVertiportID, timeStart, timeEnd)
		if err != nil && apperrors.IsType(err, apperrors.ErrorTypeNoPathFound) {
			noPath = true
			return routes, nil // legitimate "no route" outcome, not a breaker failure
		}
		return routes, err
	})
	if err != nil {
		c.recordOutcome("client_error")
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeClient, "pathing oracle unavailable")
	}
	if noPath {
		c.recordOutcome("no_path")
	} else {
		c.recordOutcome("found")
	}
	routes, _ := result.([]Route)
	return routes, nil
}

// recordOutcome increments Metrics.PathingOutcomes when metrics are
// enabled.
func (c *Client) recordOutcome(outcome string) {
	if c.Metrics != nil {
		c.Metrics.PathingOutcomes.WithLabelValues(outcome).Inc()
	}
}

// CheckIntersection executes the oracle's intersection check through the
// circuit breaker.
func (c *Client) CheckIntersection(ctx context.Context, path []flightplan.Point3D, timeStart, timeEnd time.Time, originID, targetID uuid.UUID) (bool, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.oracle.CheckIntersection(ctx, path, timeStart, timeEnd, originID, targetID)
	})
	if err != nil {
		c.recordOutcome("client_error")
		return false, apperrors.Wrap(err, apperrors.ErrorTypeClient, "pathing oracle unavailable")
	}
	intersects, _ := result.(bool)
	c.recordOutcome("checked")
	return intersects, nil
}

// EstimateFlightDuration is the conservative flight-time estimate from
// spec.md §4.5: liftoff + cruise + landing.
func EstimateFlightDuration(distanceMeters float64) time.Duration {
	return constants.EstimatedFlightDuration(distanceMeters)
}
