// Package worker implements the task-queue worker loop spec.md §4.9
// describes: pop the highest-priority pending task, dispatch it to the
// create- or cancel-itinerary handler, and persist a terminal status
// before moving on. Grounded on
// original_source/server/src/tasks/mod.rs's task_loop (the
// pop/skip-if-advanced/dispatch/persist-terminal-status sequence) and its
// per-handler error-to-rationale mapping.
package worker

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/internal/metrics"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/geoclient"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/pathing"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/scheduler/constants"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/storageclient"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/taskqueue"
)

// Dependencies bundles every collaborator a worker needs to process a
// task: the queue itself, the storage-service collections, and the
// geospatial oracle (both for path queries and for registering a
// confirmed path). Metrics is optional; a nil value disables recording.
type Dependencies struct {
	Queue   *taskqueue.Queue
	Storage storageclient.Clients
	Oracle  pathing.Oracle
	Geo     geoclient.Updater
	Logger  logr.Logger
	Metrics *metrics.Registry
}

// Worker loops draining the task queue, per spec.md §4.9. A single Worker
// is safe to run as one of several replicas; all shared state lives in
// Redis via Dependencies.Queue.
type Worker struct {
	deps Dependencies
}

// New builds a Worker over deps.
func New(deps Dependencies) *Worker {
	return &Worker{deps: deps}
}

// Run loops until ctx is cancelled: pop, dispatch, persist a terminal
// status, repeat. Sleeps constants.WorkerIdleSleep whenever every
// priority queue is empty, per spec.md §4.9 step 1 / §5's 1s backoff.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !w.step(ctx) {
			select {
			case <-ctx.Done():
				return
			case <-time.After(constants.WorkerIdleSleep):
			}
		}
	}
}

// step processes at most one task, returning false when the queue was
// empty (so Run knows to sleep).
func (w *Worker) step(ctx context.Context) bool {
	taskID, task, err := w.deps.Queue.Next(ctx)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return false
		}
		w.deps.Logger.Error(err, "failed to pop next task")
		return false
	}

	// The task may have been cancelled between admission and pop; skip it
	// without touching the record again (tasks/mod.rs's task_loop step 2).
	if task.Metadata.Status != taskqueue.StatusQueued {
		return true
	}

	start := time.Now()
	var result string
	var dispatchErr error
	switch task.Metadata.Action {
	case taskqueue.ActionCreateItinerary:
		result, dispatchErr = w.createItinerary(ctx, task)
	case taskqueue.ActionCancelItinerary:
		dispatchErr = w.cancelItinerary(ctx, task)
	default:
		dispatchErr = apperrors.New(apperrors.ErrorTypeInvalidData, "unrecognized task action")
		task.Metadata.StatusRationale = taskqueue.RationaleInvalidAction
	}

	outcome := "success"
	if dispatchErr != nil {
		outcome = "failure"
		task.Metadata.Status = taskqueue.StatusRejected
		if task.Metadata.StatusRationale == taskqueue.RationaleNone {
			task.Metadata.StatusRationale = rationaleFor(dispatchErr)
		}
		w.deps.Logger.Error(dispatchErr, "task failed", "taskID", taskID)
	} else {
		task.Metadata.Status = taskqueue.StatusComplete
		if result != "" {
			task.Metadata.Result = &result
		}
	}
	if w.deps.Metrics != nil {
		w.deps.Metrics.WorkerTaskDuration.WithLabelValues(actionLabel(task.Metadata.Action), outcome).Observe(time.Since(start).Seconds())
	}

	if err := w.deps.Queue.MarkTerminal(ctx, taskID, task); err != nil {
		w.deps.Logger.Error(err, "failed to persist terminal task status", "taskID", taskID)
	}
	return true
}

// actionLabel turns an Action into a metrics label.
func actionLabel(a taskqueue.Action) string {
	switch a {
	case taskqueue.ActionCreateItinerary:
		return "create_itinerary"
	case taskqueue.ActionCancelItinerary:
		return "cancel_itinerary"
	default:
		return "unknown"
	}
}

// rationaleFor maps a dispatch error onto a status rationale, per the
// error-kind table in spec.md §7 ("Worker").
func rationaleFor(err error) taskqueue.Rationale {
	switch {
	case apperrors.IsType(err, apperrors.ErrorTypeScheduleConflict):
		return taskqueue.RationaleScheduleConflict
	case apperrors.IsType(err, apperrors.ErrorTypeNotFound):
		return taskqueue.RationaleItineraryIDNotFound
	default:
		return taskqueue.RationaleInternal
	}
}
