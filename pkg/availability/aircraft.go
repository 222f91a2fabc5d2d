package availability

import (
	"time"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/calendar"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/scheduler/constants"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/timeslot"

	"github.com/google/uuid"
)

// AircraftTimeslots builds, for every aircraft in fleet, the list of free
// Availability records after subtracting existingPlans, per spec.md §4.4.
// The query window is padded by constants.DeadheadPadding on each side to
// allow pre- and post-positioning legs; the start of every resulting slot
// is clipped so it is never earlier than earliestDeparture.
func AircraftTimeslots(
	fleet []Aircraft,
	existingPlans []flightplan.Schedule,
	earliestDeparture time.Time,
	window timeslot.Timeslot,
) (map[uuid.UUID][]Availability, error) {
	paddedStart := window.Start.Add(-constants.DeadheadPadding)
	paddedEnd := window.End.Add(constants.DeadheadPadding)

	result := make(map[uuid.UUID][]Availability, len(fleet))

	for _, a := range fleet {
		cal, err := calendar.Parse(a.ScheduleRules)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrorTypeInvalidData, "invalid schedule for aircraft")
		}

		occs, err := cal.ToTimeslots(paddedStart, paddedEnd)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "could not convert aircraft calendar to timeslots")
		}

		var base []Availability
		for _, occ := range occs {
			start := occ.Start
			if earliestDeparture.After(start) {
				start = earliestDeparture
			}
			clipped, err := timeslot.New(start, occ.End)
			if err != nil {
				continue // occurrence collapses entirely behind earliestDeparture
			}
			base = append(base, Availability{
				Timeslot:    clipped,
				VertiportID: a.HangarID,
				VertipadID:  a.HangarBayID,
			})
		}
		if base != nil {
			result[a.ID] = base
		}
	}

	for _, fp := range existingPlans {
		slots, ok := result[fp.VehicleID]
		if !ok {
			continue // flight plan references an aircraft outside the fleet we were given
		}

		var next []Availability
		for _, a := range slots {
			next = append(next, a.subtract(fp)...)
		}
		result[fp.VehicleID] = next
	}

	return result, nil
}

// subtract removes fp's commitment window [OriginTimeslotStart,
// TargetTimeslotStart) from a's timeslot. The piece before the flight
// plan retains a's current location; the piece after adopts the flight
// plan's target as the aircraft's new location, per spec.md §4.4 step 3.
func (a Availability) subtract(fp flightplan.Schedule) []Availability {
	fpSlot, err := timeslot.New(fp.OriginTimeslotStart, fp.TargetTimeslotStart)
	if err != nil {
		return nil
	}

	pieces := timeslot.Subtract(a.Timeslot, fpSlot)
	out := make([]Availability, 0, len(pieces))
	for _, piece := range pieces {
		if piece.Start.Before(fpSlot.Start) {
			out = append(out, Availability{Timeslot: piece, VertiportID: a.VertiportID, VertipadID: a.VertipadID})
		} else {
			out = append(out, Availability{Timeslot: piece, VertiportID: fp.TargetVertiportID, VertipadID: fp.TargetVertipadID})
		}
	}
	return out
}
