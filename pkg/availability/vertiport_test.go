package availability

import (
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/timeslot"
)

func TestAvailability(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Availability Suite")
}

const openAllDay = "DTSTART:20260101T000000Z;DURATION:P1D\nRRULE:FREQ=DAILY"

var _ = Describe("VertiportTimeslots", func() {
	It("returns bounded free slots when nothing is occupied", func() {
		vertiportID := uuid.New()
		padID := uuid.New()

		vertiport := Vertiport{ID: vertiportID, Schedule: openAllDay}
		pads := []Vertipad{{ID: padID, VertiportID: vertiportID}}

		window, err := timeslot.New(
			time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		)
		Expect(err).NotTo(HaveOccurred())

		got, err := VertiportTimeslots(vertiport, pads, nil, window, 5*time.Minute)
		Expect(err).NotTo(HaveOccurred())

		slots := got[padID]
		Expect(slots).NotTo(BeEmpty())
		for _, s := range slots {
			Expect(s.Duration()).To(BeNumerically("<=", 30*time.Minute))
		}
	})

	It("excludes an occupied instant from the free slots", func() {
		vertiportID := uuid.New()
		padID := uuid.New()

		vertiport := Vertiport{ID: vertiportID, Schedule: openAllDay}
		pads := []Vertipad{{ID: padID, VertiportID: vertiportID}}

		window, _ := timeslot.New(
			time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC),
		)

		occupiedStart := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
		plans := []flightplan.Schedule{
			{
				OriginVertiportID:   vertiportID,
				OriginVertipadID:    padID,
				OriginTimeslotStart: occupiedStart,
				OriginTimeslotEnd:   occupiedStart.Add(time.Minute),
				TargetVertiportID:   uuid.New(),
				TargetVertipadID:    uuid.New(),
				TargetTimeslotStart: occupiedStart.Add(20 * time.Minute),
				TargetTimeslotEnd:   occupiedStart.Add(21 * time.Minute),
				VehicleID:           uuid.New(),
			},
		}

		got, err := VertiportTimeslots(vertiport, pads, plans, window, time.Minute)
		Expect(err).NotTo(HaveOccurred())

		for _, s := range got[padID] {
			Expect(s.Contains(occupiedStart)).To(BeFalse())
		}
	})

	It("errors when no vertipads are given", func() {
		vertiport := Vertiport{ID: uuid.New(), Schedule: openAllDay}
		window, _ := timeslot.New(time.Now(), time.Now().Add(time.Hour))

		_, err := VertiportTimeslots(vertiport, nil, nil, window, time.Minute)
		Expect(err).To(HaveOccurred())
	})
})
