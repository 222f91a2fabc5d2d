// Package scheduler is the top-level entry point spec.md §4.10 names:
// query_flight, create_itinerary_async, cancel_itinerary_async,
// cancel_task, get_task_status, is_ready. Grounded on
// original_source/server/src/grpc/api/create.rs (priority/user_id
// parsing, default-expiry-is-earliest-leg-start, min-against-caller-
// supplied-expiry) and cancel.rs/confirm_itinerary.rs for the cancel and
// status paths. ClientCtx replaces the original's trait-object client
// abstraction with a plain struct bundling every collaborator.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/internal/metrics"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/availability"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/itinerary"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/pathing"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/query"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/storageclient"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/taskqueue"
)

// ClientCtx bundles every collaborator a top-level operation needs: the
// storage service, the pathing oracle, and the durable task queue.
type ClientCtx struct {
	Storage storageclient.Clients
	Oracle  *pathing.Client
	Queue   *taskqueue.Queue
	Logger  logr.Logger

	// Metrics is optional; when set, QueryFlight's call to query.Run
	// records search duration against it. A nil Metrics is a no-op.
	Metrics *metrics.Registry

	// candidates is the expiring QueryFlight-result cache CreateItineraryAsync
	// consults when given a CandidateID. Lazily initialized so ClientCtx
	// remains constructible as a plain struct literal.
	candidatesMu sync.Mutex
	candidates   *candidateCache
}

// ensureCandidates returns c's candidate cache, initializing it on first use.
func (c *ClientCtx) ensureCandidates() *candidateCache {
	c.candidatesMu.Lock()
	defer c.candidatesMu.Unlock()
	if c.candidates == nil {
		c.candidates = newCandidateCache(defaultCandidateTTL)
	}
	return c.candidates
}

// QueriedItinerary pairs a candidate itinerary with the ephemeral id
// CreateItineraryAsync can later use to reference it by CandidateID
// instead of resending the full flight-plan list, per SPEC_FULL.md §10's
// confirm-itinerary-flow supplement.
type QueriedItinerary struct {
	CandidateID uuid.UUID
	Itinerary   itinerary.Itinerary
}

// CreateItineraryRequest is the create_itinerary_async input: either a
// CandidateID referencing a still-unexpired QueryFlight result, or a
// proposed sequence of legs supplied directly; plus a priority, the
// requesting user, and an optional caller-supplied expiry. When both
// CandidateID and FlightPlans are set, CandidateID takes precedence.
type CreateItineraryRequest struct {
	Priority      taskqueue.Priority
	CandidateID   *uuid.UUID
	FlightPlans   []flightplan.Schedule
	UserID        uuid.UUID
	RequestExpiry *time.Time
}

// CancelItineraryRequest is the cancel_itinerary_async input.
type CancelItineraryRequest struct {
	Priority    taskqueue.Priority
	ItineraryID uuid.UUID
	UserID      uuid.UUID
}

// TaskResponse mirrors the RPC surface's TaskResponse: a task id plus its
// current metadata snapshot.
type TaskResponse struct {
	TaskID   int64
	Metadata taskqueue.Metadata
}

// QueryFlight validates req and searches for candidate itineraries, per
// spec.md §4.7. Returns ErrorTypeNotFound when validation succeeds but no
// itinerary exists for the window. Every returned itinerary is stashed in
// the candidate cache under its CandidateID, so a later CreateItineraryAsync
// call can reference it by id instead of resending its flight plans.
func (c *ClientCtx) QueryFlight(ctx context.Context, req query.Request) ([]QueriedItinerary, error) {
	flightQuery, err := query.Validate(req, time.Now())
	if err != nil {
		return nil, err
	}

	deps, err := c.queryDependencies(ctx, flightQuery)
	if err != nil {
		return nil, err
	}

	itineraries, err := query.Run(ctx, flightQuery, deps)
	if err != nil {
		return nil, err
	}
	if len(itineraries) == 0 {
		return nil, apperrors.New(apperrors.ErrorTypeNotFound, "no itineraries available for the requested window")
	}

	cache := c.ensureCandidates()
	out := make([]QueriedItinerary, len(itineraries))
	for i, it := range itineraries {
		out[i] = QueriedItinerary{CandidateID: cache.put(it), Itinerary: it}
	}
	return out, nil
}

// queryDependencies fetches every storage collaborator query.Run needs
// for flightQuery's vertiports, from the storage service.
func (c *ClientCtx) queryDependencies(ctx context.Context, flightQuery query.FlightQuery) (query.Dependencies, error) {
	originVertiportRow, err := c.Storage.Vertiport.GetByID(ctx, flightQuery.OriginVertiportID)
	if err != nil {
		return query.Dependencies{}, err
	}
	targetVertiportRow, err := c.Storage.Vertiport.GetByID(ctx, flightQuery.TargetVertiportID)
	if err != nil {
		return query.Dependencies{}, err
	}

	originVertipads, err := c.Storage.Vertipad.Search(ctx, storageclient.Filter{Equals: map[string]string{"vertiport_id": flightQuery.OriginVertiportID.String()}})
	if err != nil {
		return query.Dependencies{}, err
	}
	targetVertipads, err := c.Storage.Vertipad.Search(ctx, storageclient.Filter{Equals: map[string]string{"vertiport_id": flightQuery.TargetVertiportID.String()}})
	if err != nil {
		return query.Dependencies{}, err
	}

	fleet, err := c.Storage.Vehicle.Search(ctx, storageclient.Filter{})
	if err != nil {
		return query.Dependencies{}, err
	}

	existingPlans, err := c.Storage.FlightPlan.Search(ctx, storageclient.Filter{})
	if err != nil {
		return query.Dependencies{}, err
	}
	active := existingPlans[:0]
	for _, fp := range existingPlans {
		if fp.Status == flightplan.StatusActive {
			active = append(active, fp)
		}
	}
	existingPlans = active
	flightplan.SortByOriginStart(existingPlans)

	return query.Dependencies{
		OriginVertiport: toAvailabilityVertiport(originVertiportRow),
		OriginVertipads: toAvailabilityVertipads(originVertipads),
		TargetVertiport: toAvailabilityVertiport(targetVertiportRow),
		TargetVertipads: toAvailabilityVertipads(targetVertipads),
		Fleet:           toAvailabilityFleet(fleet),
		ExistingPlans:   existingPlans,
		PathingClient:   c.Oracle,
		Metrics:         c.Metrics,
	}, nil
}

func toAvailabilityVertiport(v storageclient.Vertiport) availability.Vertiport {
	return availability.Vertiport{ID: v.ID, Schedule: v.Schedule}
}

func toAvailabilityVertipads(pads []storageclient.Vertipad) []availability.Vertipad {
	out := make([]availability.Vertipad, 0, len(pads))
	for _, p := range pads {
		if !p.Enabled {
			continue
		}
		out = append(out, availability.Vertipad{ID: p.ID, VertiportID: p.VertiportID})
	}
	return out
}

func toAvailabilityFleet(vehicles []storageclient.Vehicle) []availability.Aircraft {
	out := make([]availability.Aircraft, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, availability.Aircraft{
			ID:            v.ID,
			HangarID:      v.HangarID,
			HangarBayID:   v.HangarBayID,
			ScheduleRules: v.Schedule,
		})
	}
	return out
}

// CreateItineraryAsync enqueues a create-itinerary task, per spec.md
// §4.10 / original_source's create_itinerary gRPC handler: the default
// expiry is the earliest leg's departure, clamped down further by a
// caller-supplied expiry when one is earlier.
func (c *ClientCtx) CreateItineraryAsync(ctx context.Context, req CreateItineraryRequest) (TaskResponse, error) {
	flightPlans := req.FlightPlans
	if req.CandidateID != nil {
		cached, ok := c.ensureCandidates().get(*req.CandidateID)
		if !ok {
			return TaskResponse{}, apperrors.New(apperrors.ErrorTypeNotFound, "candidate itinerary not found or expired")
		}
		flightPlans = cached.Legs
	}
	if len(flightPlans) == 0 {
		return TaskResponse{}, apperrors.New(apperrors.ErrorTypeInvalidData, "no flight plans provided")
	}

	expiry := flightPlans[0].OriginTimeslotStart
	for _, fp := range flightPlans[1:] {
		if fp.OriginTimeslotStart.Before(expiry) {
			expiry = fp.OriginTimeslotStart
		}
	}
	if req.RequestExpiry != nil && req.RequestExpiry.Before(expiry) {
		expiry = *req.RequestExpiry
	}

	task := taskqueue.Task{
		Metadata: taskqueue.Metadata{
			Status: taskqueue.StatusQueued,
			Action: taskqueue.ActionCreateItinerary,
			UserID: req.UserID,
		},
		Body: taskqueue.Body{CreateItineraryPlans: flightPlans},
	}

	taskID, err := c.Queue.Admit(ctx, task, req.Priority, expiry)
	if err != nil {
		return TaskResponse{}, err
	}
	return TaskResponse{TaskID: taskID, Metadata: task.Metadata}, nil
}

// CancelItineraryAsync enqueues a cancel-itinerary task with expiry =
// now + 1 hour, per spec.md §4.10 (a placeholder the spec records as
// intentional — see DESIGN.md Open Question 2).
func (c *ClientCtx) CancelItineraryAsync(ctx context.Context, req CancelItineraryRequest) (TaskResponse, error) {
	task := taskqueue.Task{
		Metadata: taskqueue.Metadata{
			Status: taskqueue.StatusQueued,
			Action: taskqueue.ActionCancelItinerary,
			UserID: req.UserID,
		},
		Body: taskqueue.Body{CancelItineraryID: req.ItineraryID},
	}

	taskID, err := c.Queue.Admit(ctx, task, req.Priority, time.Now().Add(time.Hour))
	if err != nil {
		return TaskResponse{}, err
	}
	return TaskResponse{TaskID: taskID, Metadata: task.Metadata}, nil
}

// CancelTask cancels a still-Queued task, per spec.md §4.8's cancel_task.
func (c *ClientCtx) CancelTask(ctx context.Context, taskID int64) (TaskResponse, error) {
	if err := c.Queue.Cancel(ctx, taskID); err != nil {
		return TaskResponse{}, err
	}
	return c.GetTaskStatus(ctx, taskID)
}

// GetTaskStatus reads a task's current metadata, per spec.md §4.8's
// get_task_data.
func (c *ClientCtx) GetTaskStatus(ctx context.Context, taskID int64) (TaskResponse, error) {
	task, err := c.Queue.Get(ctx, taskID)
	if err != nil {
		return TaskResponse{}, err
	}
	return TaskResponse{TaskID: taskID, Metadata: task.Metadata}, nil
}

// IsReady reports server readiness, per spec.md §4.10's is_ready: true
// once the process is up. No subsystem health check is consulted.
func (c *ClientCtx) IsReady() bool {
	return true
}
