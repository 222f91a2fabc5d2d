package availability

import (
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/timeslot"
)

var _ = Describe("AircraftTimeslots", func() {
	It("reports the hangar/bay as base availability with no existing plans", func() {
		hangar := uuid.New()
		bay := uuid.New()
		aircraftID := uuid.New()

		fleet := []Aircraft{{ID: aircraftID, HangarID: hangar, HangarBayID: bay, ScheduleRules: openAllDay}}

		window, _ := timeslot.New(
			time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		)

		got, err := AircraftTimeslots(fleet, nil, window.Start, window)
		Expect(err).NotTo(HaveOccurred())

		slots := got[aircraftID]
		Expect(slots).NotTo(BeEmpty())
		for _, a := range slots {
			Expect(a.VertiportID).To(Equal(hangar))
			Expect(a.VertipadID).To(Equal(bay))
		}
	})

	// Property 5 from spec.md §8: subtracting an existing flight plan never
	// increases total availability.
	It("property 5: never increases total availability after subtracting a flight plan", func() {
		hangar := uuid.New()
		bay := uuid.New()
		aircraftID := uuid.New()

		fleet := []Aircraft{{ID: aircraftID, HangarID: hangar, HangarBayID: bay, ScheduleRules: openAllDay}}

		window, _ := timeslot.New(
			time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		)

		before, err := AircraftTimeslots(fleet, nil, window.Start, window)
		Expect(err).NotTo(HaveOccurred())

		plan := flightplan.Schedule{
			OriginVertiportID:   hangar,
			OriginVertipadID:    bay,
			OriginTimeslotStart: window.Start,
			OriginTimeslotEnd:   window.Start.Add(10 * time.Minute),
			TargetVertiportID:   uuid.New(),
			TargetVertipadID:    uuid.New(),
			TargetTimeslotStart: window.Start.Add(30 * time.Minute),
			TargetTimeslotEnd:   window.Start.Add(40 * time.Minute),
			VehicleID:           aircraftID,
		}

		after, err := AircraftTimeslots(fleet, []flightplan.Schedule{plan}, window.Start, window)
		Expect(err).NotTo(HaveOccurred())

		var beforeTotal, afterTotal time.Duration
		for _, a := range before[aircraftID] {
			beforeTotal += a.Timeslot.Duration()
		}
		for _, a := range after[aircraftID] {
			afterTotal += a.Timeslot.Duration()
		}

		Expect(afterTotal).To(BeNumerically("<=", beforeTotal))
	})

	It("ignores flight plans belonging to a different vehicle", func() {
		hangar := uuid.New()
		bay := uuid.New()
		aircraftID := uuid.New()

		fleet := []Aircraft{{ID: aircraftID, HangarID: hangar, HangarBayID: bay, ScheduleRules: openAllDay}}
		window, _ := timeslot.New(
			time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		)

		otherVehiclePlan := flightplan.Schedule{VehicleID: uuid.New()}

		got, err := AircraftTimeslots(fleet, []flightplan.Schedule{otherVehiclePlan}, window.Start, window)
		Expect(err).NotTo(HaveOccurred())
		Expect(got[aircraftID]).NotTo(BeEmpty())
	})
})
