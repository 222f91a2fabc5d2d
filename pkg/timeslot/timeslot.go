// Package timeslot implements the interval algebra described in spec.md
// §4.1: a half-open [start, end) Timeslot value type with overlap,
// subtract, and split operations. Grounded on the semantics of
// original_source/server/src/router/schedule.rs — no third-party
// interval-arithmetic library appears anywhere in the example pack, and
// none is warranted: this is ~100 lines of pure arithmetic over
// time.Time, exactly the kind of thing the standard library already
// expresses cleanly.
package timeslot

import (
	"sort"
	"time"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
)

// Timeslot is a closed-open time interval [Start, End).
type Timeslot struct {
	Start time.Time
	End   time.Time
}

// New validates and constructs a Timeslot. Fails with ErrorTypeInvalidData
// when end < start.
func New(start, end time.Time) (Timeslot, error) {
	if end.Before(start) {
		return Timeslot{}, apperrors.New(apperrors.ErrorTypeInvalidData, "timeslot end must not be before start")
	}
	return Timeslot{Start: start, End: end}, nil
}

// Duration returns the non-negative length of the timeslot.
func (t Timeslot) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// IsEmpty reports whether the timeslot has zero duration.
func (t Timeslot) IsEmpty() bool {
	return !t.Start.Before(t.End)
}

// Contains reports whether instant falls within [Start, End).
func (t Timeslot) Contains(instant time.Time) bool {
	return !instant.Before(t.Start) && instant.Before(t.End)
}

// Overlap returns the intersection of a and b: [max(starts), min(ends)),
// failing when the resulting interval is empty or inverted.
func Overlap(a, b Timeslot) (Timeslot, error) {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if !start.Before(end) {
		return Timeslot{}, apperrors.New(apperrors.ErrorTypeInvalidData, "no overlap between timeslots")
	}
	return Timeslot{Start: start, End: end}, nil
}

// Subtract computes self − other, producing 0, 1, or 2 resulting
// intervals per the five exhaustive cases in spec.md §4.1:
//
//  1. disjoint                      -> [self]
//  2. other covers self             -> []
//  3. other strictly inside self    -> [self.Start, other.Start), [other.End, self.End)
//  4. other overlaps the right end  -> [self.Start, other.Start)
//  5. other overlaps the left end   -> [other.End, self.End)
func Subtract(self, other Timeslot) []Timeslot {
	// Case 1: disjoint.
	if !other.Start.Before(self.End) || !self.Start.Before(other.End) {
		return []Timeslot{self}
	}

	// Case 2: other covers self entirely.
	if !other.Start.After(self.Start) && !other.End.Before(self.End) {
		return nil
	}

	leftCut := other.Start.After(self.Start)
	rightCut := other.End.Before(self.End)

	switch {
	case leftCut && rightCut:
		// Case 3: other strictly inside self.
		out := make([]Timeslot, 0, 2)
		if left, err := New(self.Start, other.Start); err == nil && !left.IsEmpty() {
			out = append(out, left)
		}
		if right, err := New(other.End, self.End); err == nil && !right.IsEmpty() {
			out = append(out, right)
		}
		return out
	case leftCut:
		// Case 4: other overlaps the right end (self.End <= other.End).
		if left, err := New(self.Start, other.Start); err == nil && !left.IsEmpty() {
			return []Timeslot{left}
		}
		return nil
	default:
		// Case 5: other overlaps the left end (other.Start <= self.Start).
		if right, err := New(other.End, self.End); err == nil && !right.IsEmpty() {
			return []Timeslot{right}
		}
		return nil
	}
}

// Split walks t in chunks no larger than maxDuration, emitting each chunk
// whose length is at least minDuration. Used to bound availability slots
// so a short temporary no-fly zone invalidates only a small piece of the
// surrounding availability (spec.md §4.1).
func Split(t Timeslot, minDuration, maxDuration time.Duration) []Timeslot {
	if minDuration <= 0 || maxDuration <= 0 || minDuration > maxDuration {
		return nil
	}
	var out []Timeslot
	cursor := t.Start
	for cursor.Before(t.End) {
		chunkEnd := cursor.Add(maxDuration)
		if chunkEnd.After(t.End) {
			chunkEnd = t.End
		}
		if chunkEnd.Sub(cursor) >= minDuration {
			out = append(out, Timeslot{Start: cursor, End: chunkEnd})
		}
		cursor = chunkEnd
	}
	return out
}

// SortByStart sorts timeslots ascending by Start, used wherever spec.md
// requires deterministic ordering (availability slots, TimeslotPairs).
func SortByStart(slots []Timeslot) {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})
}
