package scheduler

import (
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/itinerary"
)

var _ = Describe("candidateCache", func() {
	It("returns a put itinerary on get", func() {
		cache := newCandidateCache(time.Minute)
		it := itinerary.Itinerary{Legs: []flightplan.Schedule{{VehicleID: uuid.New()}}, DistanceMeters: 1000}

		id := cache.put(it)
		got, ok := cache.get(id)
		Expect(ok).To(BeTrue())
		Expect(got.DistanceMeters).To(Equal(it.DistanceMeters))
	})

	It("fails lookup for an unknown id", func() {
		cache := newCandidateCache(time.Minute)
		_, ok := cache.get([16]byte{})
		Expect(ok).To(BeFalse())
	})

	It("evicts an entry once its ttl has elapsed", func() {
		cache := newCandidateCache(time.Millisecond)
		id := cache.put(itinerary.Itinerary{})

		time.Sleep(5 * time.Millisecond)

		_, ok := cache.get(id)
		Expect(ok).To(BeFalse())
	})
})
