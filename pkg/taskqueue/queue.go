package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/internal/metrics"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/kv"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/scheduler/constants"
)

const counterKey = "scheduler:tasks"

// Queue is the durable priority task queue: a counter + hash of task
// records plus four priority sorted sets, all over pkg/kv, per spec.md
// §4.8.
type Queue struct {
	kv *kv.Client

	// Metrics is optional; when set, Admit/Next record the collectors
	// internal/metrics.Registry defines. A nil Metrics is a no-op.
	Metrics *metrics.Registry
}

// NewQueue wraps client in a Queue.
func NewQueue(client *kv.Client) *Queue {
	return &Queue{kv: client}
}

func taskKey(taskID int64) string {
	return fmt.Sprintf("%s:%d", counterKey, taskID)
}

// Admit enqueues task under priority, expiring the record at expiry, per
// pool.rs's new_task. Rejects an expiry in the past or a task that is
// not freshly Queued, mirroring the admission validation the original
// performs before touching Redis.
func (q *Queue) Admit(ctx context.Context, task Task, priority Priority, expiry time.Time) (int64, error) {
	if !expiry.After(time.Now()) {
		return 0, apperrors.New(apperrors.ErrorTypeInvalidData, "expiry must be in the future")
	}
	if task.Metadata.Status != StatusQueued {
		return 0, apperrors.New(apperrors.ErrorTypeInvalidData, "new task status must be Queued")
	}
	if task.Metadata.StatusRationale != RationaleNone {
		return 0, apperrors.New(apperrors.ErrorTypeInvalidData, "new task status rationale must be unset")
	}
	queueName, ok := priority.queueKey()
	if !ok {
		if q.Metrics != nil {
			q.Metrics.TaskAdmissions.WithLabelValues(priority.String(), "rejected").Inc()
		}
		return 0, apperrors.New(apperrors.ErrorTypeInvalidData, "invalid priority")
	}

	// The counter increment is its own atomic round trip (HINCRBY is
	// already atomic); the hash write and sorted-set add are grouped into
	// one TxPipelined call so a task can never exist in the hash without
	// being queued, or vice versa (spec.md §4.8b).
	taskID, err := q.kv.HIncrBy(ctx, counterKey, "counter", 1)
	if err != nil {
		return 0, err
	}

	data, err := json.Marshal(task)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "could not serialize task")
	}

	key := taskKey(taskID)
	if err := q.kv.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "data", data)
		pipe.ExpireAt(ctx, key, expiry)
		pipe.ZAdd(ctx, queueName, redis.Z{Score: float64(expiry.UnixMilli()), Member: taskID})
		return nil
	}); err != nil {
		return 0, err
	}

	if q.Metrics != nil {
		q.Metrics.TaskAdmissions.WithLabelValues(priority.String(), "admitted").Inc()
		q.Metrics.QueueDepth.WithLabelValues(priority.String()).Inc()
	}

	return taskID, nil
}

// Next pops and returns the highest-priority, earliest-expiring pending
// task across the four queues, per pool.rs's next_task: queues are tried
// in priority order (emergency, high, medium, low) and the first
// non-empty one wins, regardless of score comparisons across bands —
// this realizes property 8 (queue priority invariant).
func (q *Queue) Next(ctx context.Context) (int64, Task, error) {
	start := time.Now()
	if q.Metrics != nil {
		defer func() {
			q.Metrics.NextTaskLatency.Observe(time.Since(start).Seconds())
		}()
	}

	var taskIDStr string
	var popErr error
	poppedPriority := -1
	for i, queueName := range queueNames {
		taskIDStr, popErr = q.kv.ZPopMin(ctx, queueName)
		if popErr == nil {
			poppedPriority = i
			break
		}
		if !apperrors.IsType(popErr, apperrors.ErrorTypeNotFound) {
			return 0, Task{}, popErr
		}
	}
	if popErr != nil {
		return 0, Task{}, apperrors.New(apperrors.ErrorTypeNotFound, "no tasks in any queue")
	}
	if q.Metrics != nil {
		q.Metrics.QueueDepth.WithLabelValues(Priority(poppedPriority).String()).Dec()
	}

	taskID, err := strconv.ParseInt(taskIDStr, 10, 64)
	if err != nil {
		return 0, Task{}, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "malformed task id popped from queue")
	}

	task, err := q.Get(ctx, taskID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return 0, Task{}, apperrors.New(apperrors.ErrorTypeNotFound, "task data expired between pop and lookup")
		}
		return 0, Task{}, err
	}

	return taskID, task, nil
}

// Get returns the current record for taskID.
func (q *Queue) Get(ctx context.Context, taskID int64) (Task, error) {
	data, err := q.kv.HGet(ctx, taskKey(taskID), "data")
	if err != nil {
		return Task{}, err
	}
	var task Task
	if err := json.Unmarshal([]byte(data), &task); err != nil {
		return Task{}, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "could not deserialize task")
	}
	return task, nil
}

// Update overwrites task's hash record and refreshes its expiry, per
// pool.rs's update_task. It does not re-queue the task.
func (q *Queue) Update(ctx context.Context, taskID int64, task Task, newExpiry time.Time) error {
	data, err := json.Marshal(task)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "could not serialize task")
	}
	key := taskKey(taskID)
	if err := q.kv.HSet(ctx, key, "data", string(data)); err != nil {
		return err
	}
	return q.kv.ExpireAt(ctx, key, newExpiry)
}

// Cancel rejects taskID if it is still Queued, setting status Rejected
// with rationale ClientCancelled and a short one-minute expiry so the
// record lingers briefly for status inspection, per tasks/mod.rs's
// cancel_task and spec.md §4.8.
func (q *Queue) Cancel(ctx context.Context, taskID int64) error {
	task, err := q.Get(ctx, taskID)
	if err != nil {
		return err
	}
	if task.Metadata.Status != StatusQueued {
		return apperrors.New(apperrors.ErrorTypeAlreadyProcessed, "task is no longer queued")
	}

	task.Metadata.Status = StatusRejected
	task.Metadata.StatusRationale = RationaleClientCancelled

	return q.Update(ctx, taskID, task, time.Now().Add(time.Minute))
}

// MarkTerminal records the outcome of processing a task and resets its
// expiry to constants.TaskKeepaliveAfterTerminal, per the worker loop's
// post-processing update in tasks/mod.rs's task_loop.
func (q *Queue) MarkTerminal(ctx context.Context, taskID int64, task Task) error {
	return q.Update(ctx, taskID, task, time.Now().Add(constants.TaskKeepaliveAfterTerminal))
}
