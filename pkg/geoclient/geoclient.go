package geoclient

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/pathing"
)

// Transport is the wire-level collaborator a real Client dials — gRPC
// framing is explicitly out of scope (spec.md §1's Non-goals), so this
// module only defines the shape a concrete transport must satisfy,
// following the same seam pkg/kv.Client leaves for its Redis driver.
type Transport interface {
	BestPath(ctx context.Context, originVertiportID, targetVertiportID uuid.UUID, timeStart, timeEnd time.Time) ([]pathing.Route, error)
	CheckIntersection(ctx context.Context, path []flightplan.Point3D, timeStart, timeEnd time.Time, originID, targetID uuid.UUID) (bool, error)
	UpdateFlightPath(ctx context.Context, req UpdateFlightPathRequest) error
}

// Client adapts a Transport to pathing.Oracle and geoclient.Updater.
// It carries no state of its own; the double-checked lazy-connect
// pattern belongs to the Transport implementation (see pkg/kv.Client),
// not to this thin adapter.
type Client struct {
	transport Transport
}

// NewClient wraps transport for use as a pathing.Oracle and Updater.
func NewClient(transport Transport) *Client {
	return &Client{transport: transport}
}

// BestPath satisfies pathing.Oracle.
func (c *Client) BestPath(ctx context.Context, originVertiportID, targetVertiportID uuid.UUID, timeStart, timeEnd time.Time) ([]pathing.Route, error) {
	routes, err := c.transport.BestPath(ctx, originVertiportID, targetVertiportID, timeStart, timeEnd)
	if err != nil {
		return nil, err
	}
	return routes, nil
}

// CheckIntersection satisfies pathing.Oracle.
func (c *Client) CheckIntersection(ctx context.Context, path []flightplan.Point3D, timeStart, timeEnd time.Time, originID, targetID uuid.UUID) (bool, error) {
	return c.transport.CheckIntersection(ctx, path, timeStart, timeEnd, originID, targetID)
}

// UpdateFlightPath registers a confirmed path so later CheckIntersection
// calls see it as reserved airspace. Called only from the create-itinerary
// worker task, after the flight plan has committed to storage.
func (c *Client) UpdateFlightPath(ctx context.Context, req UpdateFlightPathRequest) error {
	if req.FlightIdentifier == "" || req.AircraftIdentifier == "" {
		return apperrors.New(apperrors.ErrorTypeInvalidData, "flight and aircraft identifiers are required")
	}
	if !req.TimeEnd.After(req.TimeStart) {
		return apperrors.New(apperrors.ErrorTypeTime, "flight path time_end must be after time_start")
	}
	return c.transport.UpdateFlightPath(ctx, req)
}
