// Package itinerary composes vertiport availability, aircraft
// availability, and the pathing oracle into candidate multi-leg
// itineraries (spec.md §4.6). Grounded on
// original_source/server/src/router/itinerary.rs
// (get_itineraries/aircraft_selection/get_itinerary) and
// router/vertiport.rs (get_vertipad_timeslot_pairs), reimplemented
// without an async runtime — context.Context carries cancellation the
// way it does throughout the rest of this module.
package itinerary

import (
	"time"

	"github.com/google/uuid"

	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/timeslot"
)

// Pair is a feasible (origin pad timeslot, target pad timeslot, path)
// combination discovered during pairing, the Go realization of spec.md
// §3's TimeslotPair entity.
type Pair struct {
	OriginVertiportID uuid.UUID
	OriginVertipadID  uuid.UUID
	OriginTimeslot    timeslot.Timeslot
	TargetVertiportID uuid.UUID
	TargetVertipadID  uuid.UUID
	TargetTimeslot    timeslot.Timeslot
	Waypoints         []flightplan.Point3D
	DistanceMeters    float64
}

// Itinerary is a complete, schedulable sequence of 1-3 flight-plan legs:
// up to one deadhead leg to reposition the aircraft to the query's
// origin, the primary requested leg, and up to one deadhead leg back to
// the aircraft's rest location.
type Itinerary struct {
	Legs           []flightplan.Schedule
	DistanceMeters float64
}

// TotalWindow returns the span from the first leg's origin departure to
// the last leg's target arrival.
func (it Itinerary) TotalWindow() (time.Time, time.Time) {
	if len(it.Legs) == 0 {
		return time.Time{}, time.Time{}
	}
	return it.Legs[0].OriginTimeslotStart, it.Legs[len(it.Legs)-1].TargetTimeslotEnd
}
