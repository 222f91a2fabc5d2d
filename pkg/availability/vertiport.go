package availability

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/calendar"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/scheduler/constants"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/timeslot"
)

type occupation struct {
	vertipadID uuid.UUID
	slot       timeslot.Timeslot
}

// VertiportTimeslots computes, for every vertipad in vertipads, the list
// of free timeslots within window after subtracting the occupations
// implied by existingPlans, per spec.md §4.3. Every vertipad is assumed
// to belong to vertiport; callers are responsible for pre-filtering the
// vertipad list (by vertiport id, or to a single requested pad).
func VertiportTimeslots(
	vertiport Vertiport,
	vertipads []Vertipad,
	existingPlans []flightplan.Schedule,
	window timeslot.Timeslot,
	minDuration time.Duration,
) (map[uuid.UUID][]timeslot.Timeslot, error) {
	if len(vertipads) == 0 {
		return nil, apperrors.New(apperrors.ErrorTypeInvalidData, "no vertipads found for vertiport")
	}

	cal, err := calendar.Parse(vertiport.Schedule)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInvalidData, "invalid schedule for vertiport")
	}

	baseTimeslots, err := cal.ToTimeslots(window.Start, window.End)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "could not convert vertiport calendar to timeslots")
	}

	result := make(map[uuid.UUID][]timeslot.Timeslot, len(vertipads))
	for _, pad := range vertipads {
		slots := make([]timeslot.Timeslot, len(baseTimeslots))
		copy(slots, baseTimeslots)
		result[pad.ID] = slots
	}

	occupied := buildOccupations(vertiport.ID, existingPlans)

	for _, occ := range occupied {
		slots, ok := result[occ.vertipadID]
		if !ok {
			continue // flight plan references a vertipad not in our list; skip
		}

		var remaining []timeslot.Timeslot
		for _, slot := range slots {
			remaining = append(remaining, timeslot.Subtract(slot, occ.slot)...)
		}
		result[occ.vertipadID] = remaining
	}

	for padID, slots := range result {
		var split []timeslot.Timeslot
		for _, slot := range slots {
			split = append(split, timeslot.Split(slot, minDuration, constants.MaxAvailabilitySlotChunk)...)
		}
		result[padID] = split
	}

	return result, nil
}

// buildOccupations derives the occupied vertipad intervals at vertiportID
// implied by existingPlans: the loading block at each plan's origin, and
// the unloading block at each plan's target.
func buildOccupations(vertiportID uuid.UUID, plans []flightplan.Schedule) []occupation {
	var out []occupation
	for _, fp := range plans {
		if fp.OriginVertiportID == vertiportID {
			if slot, err := timeslot.New(fp.OriginTimeslotStart, fp.OriginTimeslotStart.Add(constants.LoadingBlock)); err == nil {
				out = append(out, occupation{vertipadID: fp.OriginVertipadID, slot: slot})
			}
		}
		if fp.TargetVertiportID == vertiportID {
			if slot, err := timeslot.New(fp.TargetTimeslotStart, fp.TargetTimeslotStart.Add(constants.UnloadingBlock)); err == nil {
				out = append(out, occupation{vertipadID: fp.TargetVertipadID, slot: slot})
			}
		}
	}
	return out
}
