package calendar

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCalendar(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Calendar Suite")
}

const calWorkdays8am6pm = "DTSTART:20221020T180000Z;DURATION:PT14H\n" +
	"RRULE:FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR\n" +
	"DTSTART:20221022T000000Z;DURATION:PT24H\n" +
	"RRULE:FREQ=WEEKLY;BYDAY=SA,SU"

var _ = Describe("Parse", func() {
	It("counts every VEVENT block", func() {
		cal, err := Parse(calWorkdays8am6pm)
		Expect(err).NotTo(HaveOccurred())
		Expect(cal.Events()).To(HaveLen(2))
		Expect(cal.Events()[0].Duration).To(Equal(14 * time.Hour))
	})

	It("rejects a DURATION line preceding its DTSTART", func() {
		invalid := "DURATION:PT3H;DTSTART:20221026T133000Z;\nRRULE:FREQ=WEEKLY;BYDAY=SA,SU"
		_, err := Parse(invalid)
		Expect(err).To(HaveOccurred())
	})

	It("rejects an event with no RRULE/RDATE lines", func() {
		invalid := "DTSTART:20221026T133000Z;DURATION:PT3H"
		_, err := Parse(invalid)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("New and Render", func() {
	// Property 3 from spec.md §8: a calendar survives a render/parse round trip.
	It("property 3: round-trips events through Render and Parse", func() {
		events := []Event{
			{
				DTStart:   time.Date(2022, 10, 20, 18, 0, 0, 0, time.UTC),
				Duration:  14 * time.Hour,
				RuleLines: []string{"RRULE:FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR"},
			},
			{
				DTStart:   time.Date(2022, 10, 22, 0, 0, 0, 0, time.UTC),
				Duration:  24 * time.Hour,
				RuleLines: []string{"RRULE:FREQ=WEEKLY;BYDAY=SA,SU"},
			},
		}

		cal, err := New(events)
		Expect(err).NotTo(HaveOccurred())

		reparsed, err := Parse(cal.Render())
		Expect(err).NotTo(HaveOccurred())

		Expect(reparsed.Events()).To(HaveLen(len(events)))
		for i, e := range reparsed.Events() {
			Expect(e.DTStart.Equal(events[i].DTStart)).To(BeTrue())
			Expect(e.Duration).To(Equal(events[i].Duration))
		}
	})
})

var _ = Describe("ToTimeslots", func() {
	// Property 4 from spec.md §8: expansion never exceeds the per-event
	// occurrence bound, and every slot stays within the requested window.
	It("property 4: bounds the number of expanded occurrences and keeps them within the window", func() {
		cal, err := Parse(calWorkdays8am6pm)
		Expect(err).NotTo(HaveOccurred())

		from := time.Date(2022, 11, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, 30)

		slots, err := cal.ToTimeslots(from, to)
		Expect(err).NotTo(HaveOccurred())

		maxAllowed := maxOccurrencesPerEvent * len(cal.Events())
		Expect(len(slots)).To(BeNumerically("<=", maxAllowed))
		for _, s := range slots {
			Expect(s.Start.Before(from)).To(BeFalse())
			Expect(s.End.After(to)).To(BeFalse())
		}
	})
})
