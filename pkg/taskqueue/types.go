// Package taskqueue implements the durable priority queue spec.md §4.8
// describes: itinerary-create and itinerary-cancel work, admitted with an
// expiry and polled in strict priority order. Grounded on
// original_source/server/src/tasks/pool.rs (RedisPool trait: new_task,
// update_task, get_task_data, next_task) and tasks/mod.rs (Task,
// TaskBody, cancel_task).
package taskqueue

import (
	"github.com/google/uuid"

	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
)

// Status is a task's lifecycle state. It only ever advances out of
// Queued, per spec.md §3's TaskStatus invariant.
type Status int

const (
	StatusQueued Status = iota
	StatusComplete
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "Queued"
	case StatusComplete:
		return "Complete"
	case StatusRejected:
		return "Rejected"
	default:
		return "NotFound"
	}
}

// Rationale explains why a task's status moved away from Queued/Complete.
type Rationale int

const (
	RationaleNone Rationale = iota
	RationaleClientCancelled
	RationaleExpired
	RationaleScheduleConflict
	RationaleItineraryIDNotFound
	RationalePriorityChange
	RationaleInternal
	RationaleInvalidAction
)

// Action identifies which worker handler processes a task.
type Action int

const (
	ActionCreateItinerary Action = iota
	ActionCancelItinerary
)

// Priority is the queue a task is admitted into. Ordered Emergency > High
// > Medium > Low, per spec.md §3.
type Priority int

const (
	PriorityEmergency Priority = iota
	PriorityHigh
	PriorityMedium
	PriorityLow
)

// queueNames lists the priority queues in polling order: the order
// next_task tries them in, per pool.rs's next_task.
var queueNames = []string{
	"scheduler:emergency",
	"scheduler:high",
	"scheduler:medium",
	"scheduler:low",
}

func (p Priority) queueKey() (string, bool) {
	if p < 0 || int(p) >= len(queueNames) {
		return "", false
	}
	return queueNames[p], true
}

// priorityLabels mirrors queueNames, giving each priority band a metrics
// label without the "scheduler:" key prefix.
var priorityLabels = []string{"emergency", "high", "medium", "low"}

// String returns p's metrics label (lowercase band name), or "unknown"
// for an out-of-range value.
func (p Priority) String() string {
	if p < 0 || int(p) >= len(priorityLabels) {
		return "unknown"
	}
	return priorityLabels[p]
}

// Metadata is the status envelope every task carries, the Go realization
// of spec.md §3's TaskMetadata / the original's TaskMetadata proto
// message.
type Metadata struct {
	Status          Status
	StatusRationale Rationale
	Action          Action
	UserID          uuid.UUID
	Result          *string
}

// Body is the task-specific payload: a create-itinerary task carries the
// flight plans to persist, a cancel-itinerary task carries the itinerary
// id to cancel.
type Body struct {
	CreateItineraryPlans []flightplan.Schedule
	CancelItineraryID    uuid.UUID
}

// Task is the full durable record, serialized into the tasks hash.
type Task struct {
	Metadata Metadata
	Body     Body
}
