// Package calendar parses and expands the recurrence-rule calendars that
// back vertiport and aircraft schedules (spec.md §4.2). Grounded on
// original_source/server/src/calendar_utils.rs: the same
// "DTSTART:...;DURATION:..." header convention, the same split-on-DTSTART
// event separation, and the same inclusive-boundary expansion semantics,
// reimplemented against github.com/teambition/rrule-go (the Go analogue
// of the Rust `rrule` crate the original depends on — no RRULE library
// appears in _examples/, so this one is named here rather than grounded
// on a pack file, per the out-of-pack dependency rule).
package calendar

import (
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/timeslot"
)

// maxOccurrencesPerEvent bounds RRULE expansion per event, per spec.md §3
// constants ("maximum RRULE expansion = 100 occurrences per window").
const maxOccurrencesPerEvent = 100

// icalLayout is the iCalendar UTC date-time format used by DTSTART values.
const icalLayout = "20060102T150405Z"

// Event is a single recurring block: a start time, the rule lines that
// describe its recurrence (RRULE/RDATE), and the duration of each
// occurrence.
type Event struct {
	DTStart   time.Time
	Duration  time.Duration
	RuleLines []string // e.g. []string{"RRULE:FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR"}
}

// Calendar is an ordered list of recurring events, each with a duration,
// parsed from (or built programmatically and rendered to) the textual
// format described in spec.md §4.2.
type Calendar struct {
	events []Event
	sets   []*rrule.Set
}

// New builds a Calendar directly from events, without a parse round trip.
// Used by callers that construct calendars programmatically (and by
// Render's round-trip test).
func New(events []Event) (*Calendar, error) {
	cal := &Calendar{events: events}
	for _, e := range events {
		set, err := rrule.StrToRRuleSet(reassemble(e))
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrorTypeInvalidData, "could not parse recurrence rule set").WithDetails("RruleSet")
		}
		cal.sets = append(cal.sets, set)
	}
	return cal, nil
}

// Parse splits a multi-line calendar string on "DTSTART:", extracts each
// event's DURATION header field, and parses the remainder as an RRULE
// set. DURATION must immediately follow DTSTART in the header line, e.g.
// "DTSTART:20221020T180000Z;DURATION:PT14H", not the reverse order.
func Parse(s string) (*Calendar, error) {
	chunks := splitNonEmpty(s, "DTSTART:")
	if len(chunks) == 0 {
		return nil, apperrors.New(apperrors.ErrorTypeInvalidData, "calendar string contains no DTSTART events").WithDetails("Rrule")
	}

	var events []Event
	var sets []*rrule.Set
	for _, chunk := range chunks {
		lines := splitNonEmpty(chunk, "\n")
		if len(lines) < 2 {
			return nil, apperrors.New(apperrors.ErrorTypeInvalidData, "event is missing RRULE/RDATE lines").WithDetails("HeaderPartsLength")
		}
		header := lines[0]
		ruleLines := lines[1:]

		headerParts := strings.SplitN(header, ";DURATION:", 2)
		if len(headerParts) != 2 {
			return nil, apperrors.New(apperrors.ErrorTypeInvalidData, "event header is missing DURATION after DTSTART").WithDetails("HeaderPartsLength")
		}
		dtstartRaw, durationRaw := headerParts[0], headerParts[1]

		dtstart, err := time.Parse(icalLayout, dtstartRaw)
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrorTypeInvalidData, "invalid DTSTART %q", dtstartRaw).WithDetails("Rrule")
		}
		duration, err := parseISODuration(durationRaw)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrorTypeInvalidData, "could not parse event duration").WithDetails("Duration")
		}

		event := Event{DTStart: dtstart, Duration: duration, RuleLines: ruleLines}
		set, err := rrule.StrToRRuleSet(reassemble(event))
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrorTypeInvalidData, "could not parse recurrence rule set").WithDetails("RruleSet")
		}

		events = append(events, event)
		sets = append(sets, set)
	}

	return &Calendar{events: events, sets: sets}, nil
}

// Render formats the Calendar back into the multiline textual form Parse
// accepts, satisfying the round-trip property in spec.md §8.
func (c *Calendar) Render() string {
	var b strings.Builder
	for _, e := range c.events {
		b.WriteString("DTSTART:")
		b.WriteString(e.DTStart.UTC().Format(icalLayout))
		b.WriteString(";DURATION:")
		b.WriteString(formatISODuration(e.Duration))
		b.WriteString("\n")
		for _, line := range e.RuleLines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Events returns the parsed events, read-only.
func (c *Calendar) Events() []Event {
	return c.events
}

// ToTimeslots expands every event within [from-1day, to+1day], clips each
// occurrence to [from, to], and returns the (unsorted) resulting list, per
// spec.md §4.2. Never emits an interval outside [from, to] (property 4).
func (c *Calendar) ToTimeslots(from, to time.Time) ([]timeslot.Timeslot, error) {
	if !from.Before(to) {
		return nil, apperrors.New(apperrors.ErrorTypeInvalidData, "calendar expansion window must have from before to")
	}
	window, err := timeslot.New(from, to)
	if err != nil {
		return nil, err
	}

	lookFrom := from.Add(-24 * time.Hour)
	lookTo := to.Add(24 * time.Hour)

	var out []timeslot.Timeslot
	for i, event := range c.events {
		set := c.sets[i]
		occurrences := set.Between(lookFrom, lookTo, true)
		if len(occurrences) > maxOccurrencesPerEvent {
			occurrences = occurrences[:maxOccurrencesPerEvent]
		}
		for _, start := range occurrences {
			occ := timeslot.Timeslot{Start: start, End: start.Add(event.Duration)}
			clipped, err := timeslot.Overlap(occ, window)
			if err != nil {
				continue // occurrence falls entirely outside [from, to]
			}
			out = append(out, clipped)
		}
	}
	return out, nil
}

func reassemble(e Event) string {
	return "DTSTART:" + e.DTStart.UTC().Format(icalLayout) + "\n" + strings.Join(e.RuleLines, "\n")
}

func splitNonEmpty(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
