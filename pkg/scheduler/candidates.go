package scheduler

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/itinerary"
)

// defaultCandidateTTL mirrors original_source's ITINERARY_EXPIRATION_S
// (grpc/api/mod.rs): how long a QueryFlight result stays referenceable
// by id before CreateItineraryAsync must be given a fresh search.
const defaultCandidateTTL = 30 * time.Second

// candidateCache is an in-process, expiring map from an ephemeral id to
// a previously-returned itinerary, grounded on
// original_source/server/src/grpc/api/mod.rs's UNCONFIRMED_ITINERARIES
// map. Unlike the original, which spawns a timer per entry
// (cancel_itinerary_after_timeout), expired entries are reaped lazily on
// access — this module has no per-request async runtime to spawn into.
type candidateCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[uuid.UUID]candidateEntry
}

type candidateEntry struct {
	itinerary itinerary.Itinerary
	expiresAt time.Time
}

func newCandidateCache(ttl time.Duration) *candidateCache {
	return &candidateCache{ttl: ttl, entries: make(map[uuid.UUID]candidateEntry)}
}

// put stores it and returns the id a later CreateItineraryAsync call can
// use to reference it in place of a full flight-plan list.
func (c *candidateCache) put(it itinerary.Itinerary) uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	c.evictExpiredLocked(now)
	id := uuid.New()
	c.entries[id] = candidateEntry{itinerary: it, expiresAt: now.Add(c.ttl)}
	return id
}

// get returns the cached itinerary for id, or false if it was never
// stored or has since expired.
func (c *candidateCache) get(id uuid.UUID) (itinerary.Itinerary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	if !ok {
		return itinerary.Itinerary{}, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, id)
		return itinerary.Itinerary{}, false
	}
	return entry.itinerary, true
}

// evictExpiredLocked drops every entry past its TTL. Called with mu held.
func (c *candidateCache) evictExpiredLocked(now time.Time) {
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
		}
	}
}
