// Package availability computes per-vertipad and per-aircraft free
// timeslots (spec.md §4.3, §4.4). Grounded on
// original_source/server/src/router/vertiport.rs and
// original_source/server/src/router/vehicle.rs: the same
// calendar-minus-occupations approach, the same per-vertipad schedule
// inheritance from the vertiport, and the same deadhead-padding /
// earliest-departure clipping for aircraft.
package availability

import (
	"github.com/google/uuid"

	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/timeslot"
)

// Vertiport is the subset of a persisted vertiport record availability
// needs: its id and its recurrence-rule schedule string.
type Vertiport struct {
	ID       uuid.UUID
	Schedule string
}

// Vertipad identifies a landing pad belonging to a vertiport. Per-pad
// calendars are a future extension (spec.md §4.3 step 3); today every
// vertipad inherits its vertiport's base timeslots.
type Vertipad struct {
	ID          uuid.UUID
	VertiportID uuid.UUID
}

// Aircraft is the subset of a persisted vehicle record availability
// needs: its id, home hangar location, and recurrence-rule schedule.
type Aircraft struct {
	ID            uuid.UUID
	HangarID      uuid.UUID
	HangarBayID   uuid.UUID
	ScheduleRules string
}

// Availability is a single free timeslot at a known location, the
// scheduler's Go realization of spec.md §3's Availability entity.
type Availability struct {
	Timeslot    timeslot.Timeslot
	VertiportID uuid.UUID
	VertipadID  uuid.UUID
}
