// Package kv wraps go-redis with lazy, double-checked-locking connection
// establishment and the small set of hash/sorted-set/counter primitives
// pkg/taskqueue builds its durable queue on. Grounded on
// test/unit/cache/redis_client_test.go's NewClient/EnsureConnection/
// GetClient/Close API surface; that file drives a package with no
// retrievable production source in the pack, so this is a fresh
// implementation of the API the test demonstrably exercises.
package kv

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
)

// Client lazily connects to Redis and exposes the primitive operations
// the scheduler's durable queue is built from.
type Client struct {
	opts   *redis.Options
	logger logr.Logger

	mu        sync.Mutex
	rdb       *redis.Client
	connected atomic.Bool
}

// NewClient constructs a Client without connecting to Redis; connection
// establishment is deferred to the first EnsureConnection call.
func NewClient(opts *redis.Options, logger logr.Logger) *Client {
	return &Client{
		opts:   opts,
		logger: logger,
		rdb:    redis.NewClient(opts),
	}
}

// EnsureConnection pings Redis on the first call (or after a prior
// failure) and takes a fast atomic-load path on every call thereafter,
// avoiding a thundering herd of concurrent PINGs under load.
func (c *Client) EnsureConnection(ctx context.Context) error {
	if c.connected.Load() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected.Load() {
		return nil
	}

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		c.logger.V(1).Error(err, "redis unavailable", "addr", c.opts.Addr)
		return apperrors.Wrapf(err, apperrors.ErrorTypeNetwork, "redis unavailable at %s", c.opts.Addr)
	}

	c.connected.Store(true)
	return nil
}

// GetClient returns the underlying go-redis client for operations this
// wrapper does not cover directly.
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	c.connected.Store(false)
	return c.rdb.Close()
}

// HSet writes a single hash field, per the scheduler:tasks hash layout
// (spec.md §4.8).
func (c *Client) HSet(ctx context.Context, key, field, value string) error {
	if err := c.rdb.HSet(ctx, key, field, value).Err(); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrorTypeDatabase, "HSET %s %s", key, field)
	}
	return nil
}

// HGet reads a single hash field, returning ErrorTypeNotFound when the
// field is absent.
func (c *Client) HGet(ctx context.Context, key, field string) (string, error) {
	val, err := c.rdb.HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return "", apperrors.Newf(apperrors.ErrorTypeNotFound, "field %s not found in %s", field, key)
	}
	if err != nil {
		return "", apperrors.Wrapf(err, apperrors.ErrorTypeDatabase, "HGET %s %s", key, field)
	}
	return val, nil
}

// HDel removes a hash field.
func (c *Client) HDel(ctx context.Context, key, field string) error {
	if err := c.rdb.HDel(ctx, key, field).Err(); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrorTypeDatabase, "HDEL %s %s", key, field)
	}
	return nil
}

// HIncrBy atomically increments a hash field by delta and returns its new
// value, used to allocate monotonic task ids from the "counter" field of
// the scheduler:tasks hash, per pool.rs's hincr(counter_key, "counter", 1).
func (c *Client) HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error) {
	val, err := c.rdb.HIncrBy(ctx, key, field, delta).Result()
	if err != nil {
		return 0, apperrors.Wrapf(err, apperrors.ErrorTypeDatabase, "HINCRBY %s %s", key, field)
	}
	return val, nil
}

// ExpireAt sets key to expire at the given instant, per pool.rs's
// expire_at calls that keep the tasks hash entry alive only until its
// task's expiry.
func (c *Client) ExpireAt(ctx context.Context, key string, at time.Time) error {
	if err := c.rdb.ExpireAt(ctx, key, at).Err(); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrorTypeDatabase, "EXPIREAT %s", key)
	}
	return nil
}

// Incr atomically increments the integer counter at key and returns its
// new value, used to allocate monotonic task ids.
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	val, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, apperrors.Wrapf(err, apperrors.ErrorTypeDatabase, "INCR %s", key)
	}
	return val, nil
}

// ZAdd adds member to the sorted set at key with the given score. The
// task queue scores members by expiry in milliseconds, so ZPopMin yields
// the earliest-expiring task within a priority band.
func (c *Client) ZAdd(ctx context.Context, key string, score float64, member string) error {
	if err := c.rdb.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrorTypeDatabase, "ZADD %s", key)
	}
	return nil
}

// ZPopMin removes and returns the lowest-scored member of the sorted set
// at key, or ErrorTypeNotFound when the set is empty.
func (c *Client) ZPopMin(ctx context.Context, key string) (string, error) {
	results, err := c.rdb.ZPopMin(ctx, key, 1).Result()
	if err != nil {
		return "", apperrors.Wrapf(err, apperrors.ErrorTypeDatabase, "ZPOPMIN %s", key)
	}
	if len(results) == 0 {
		return "", apperrors.Newf(apperrors.ErrorTypeNotFound, "sorted set %s is empty", key)
	}
	return fmt.Sprintf("%v", results[0].Member), nil
}

// ZRem removes member from the sorted set at key.
func (c *Client) ZRem(ctx context.Context, key, member string) error {
	if err := c.rdb.ZRem(ctx, key, member).Err(); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrorTypeDatabase, "ZREM %s", key)
	}
	return nil
}

// TxPipelined runs fn against a transactional pipeline, per spec.md
// §4.8b's resolution of the atomic-admission open question.
func (c *Client) TxPipelined(ctx context.Context, fn func(pipe redis.Pipeliner) error) error {
	_, err := c.rdb.TxPipelined(ctx, fn)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "transactional pipeline failed")
	}
	return nil
}
