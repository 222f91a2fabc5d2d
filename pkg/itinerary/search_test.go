package itinerary

import (
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/availability"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/pathing"
)

var _ = Describe("Search", func() {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	It("builds an itinerary needing only a post-deadhead when the aircraft is already at the origin", func() {
		originVertiport := uuid.New()
		targetVertiport := uuid.New()
		aircraftID := uuid.New()

		pair := Pair{
			OriginVertiportID: originVertiport,
			OriginVertipadID:  uuid.New(),
			OriginTimeslot:    mk(base, 0, 60),
			TargetVertiportID: targetVertiport,
			TargetVertipadID:  uuid.New(),
			TargetTimeslot:    mk(base, 10, 70),
			DistanceMeters:    6000,
		}

		gap := availability.Availability{
			Timeslot:    mk(base, -60, 120),
			VertiportID: originVertiport, // aircraft already at the origin vertiport: no pre-deadhead needed
			VertipadID:  uuid.New(),
		}

		client := pathing.NewClient(&fakeOracle{distance: 6000})

		itineraries, err := Search(context.Background(), []Pair{pair}, map[uuid.UUID][]availability.Availability{aircraftID: {gap}}, client)
		Expect(err).NotTo(HaveOccurred())
		Expect(itineraries).To(HaveLen(1))
		// No pre-deadhead (aircraft already at the origin vertiport), but a
		// post-deadhead back to the aircraft's gap location is still required
		// since the target vertiport differs from it.
		Expect(itineraries[0].Legs).To(HaveLen(2))
	})

	It("inserts both a pre- and post-deadhead leg when the aircraft rests elsewhere", func() {
		vertiportA := uuid.New() // aircraft hangar
		vertiportB := uuid.New() // query origin
		vertiportC := uuid.New() // query target
		aircraftID := uuid.New()

		pair := Pair{
			OriginVertiportID: vertiportB,
			OriginVertipadID:  uuid.New(),
			OriginTimeslot:    mk(base, 30, 90),
			TargetVertiportID: vertiportC,
			TargetVertipadID:  uuid.New(),
			TargetTimeslot:    mk(base, 40, 120),
			DistanceMeters:    3000,
		}

		gap := availability.Availability{
			Timeslot:    mk(base, -120, 240),
			VertiportID: vertiportA,
			VertipadID:  uuid.New(),
		}

		client := pathing.NewClient(&fakeOracle{distance: 1000})

		itineraries, err := Search(context.Background(), []Pair{pair}, map[uuid.UUID][]availability.Availability{aircraftID: {gap}}, client)
		Expect(err).NotTo(HaveOccurred())
		Expect(itineraries).To(HaveLen(1))

		legs := itineraries[0].Legs
		Expect(legs).To(HaveLen(3), "expected deadhead, primary, deadhead")
		Expect(legs[0].OriginVertiportID).To(Equal(vertiportA))
		Expect(legs[0].TargetVertiportID).To(Equal(vertiportB))
		Expect(legs[2].OriginVertiportID).To(Equal(vertiportC))
		Expect(legs[2].TargetVertiportID).To(Equal(vertiportA))

		// Itinerary continuity, property 7 from spec.md §8.
		for i := 0; i < len(legs)-1; i++ {
			Expect(legs[i].TargetVertipadID).To(Equal(legs[i+1].OriginVertipadID))
			Expect(legs[i].TargetTimeslotStart.After(legs[i+1].OriginTimeslotStart)).To(BeFalse())
			Expect(legs[i].VehicleID).To(Equal(legs[i+1].VehicleID))
		}
	})

	It("aborts the whole search when the oracle reports a client error", func() {
		origin := uuid.New()
		target := uuid.New()
		aircraftID := uuid.New()

		pair := Pair{
			OriginVertiportID: origin,
			TargetVertiportID: target,
			OriginTimeslot:    mk(base, 30, 90),
			TargetTimeslot:    mk(base, 40, 120),
		}
		gap := availability.Availability{
			Timeslot:    mk(base, -120, 240),
			VertiportID: uuid.New(), // different from origin, forces a deadhead path lookup
		}

		client := pathing.NewClient(&fakeOracle{clientErr: true})

		_, err := Search(context.Background(), []Pair{pair}, map[uuid.UUID][]availability.Availability{aircraftID: {gap}}, client)
		Expect(apperrors.IsType(err, apperrors.ErrorTypeClient)).To(BeTrue())
	})

	It("sorts returned itineraries ascending by primary-leg distance", func() {
		origin := uuid.New()
		target := uuid.New()

		near := uuid.New()
		far := uuid.New()

		// Distinct flight windows so each aircraft's gap only overlaps one of
		// the two pairs, forcing a deterministic near/far assignment.
		pairNear := Pair{OriginVertiportID: origin, TargetVertiportID: target, OriginTimeslot: mk(base, 0, 60), TargetTimeslot: mk(base, 10, 70), DistanceMeters: 100}
		pairFar := Pair{OriginVertiportID: origin, TargetVertiportID: target, OriginTimeslot: mk(base, 200, 260), TargetTimeslot: mk(base, 210, 270), DistanceMeters: 9000}

		nearGap := availability.Availability{Timeslot: mk(base, -60, 120), VertiportID: origin}
		farGap := availability.Availability{Timeslot: mk(base, 180, 320), VertiportID: origin}

		client := pathing.NewClient(&fakeOracle{distance: 100})

		gaps := map[uuid.UUID][]availability.Availability{near: {nearGap}, far: {farGap}}
		pairs := []Pair{pairFar, pairNear}

		itineraries, err := Search(context.Background(), pairs, gaps, client)
		Expect(err).NotTo(HaveOccurred())
		Expect(itineraries).To(HaveLen(2))
		Expect(itineraries[0].DistanceMeters).To(BeNumerically("<=", itineraries[1].DistanceMeters))
	})
})
