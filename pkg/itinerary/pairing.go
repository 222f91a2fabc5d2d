package itinerary

import (
	"context"
	"sort"

	"github.com/google/uuid"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/pathing"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/timeslot"
)

type padSlot struct {
	padID uuid.UUID
	slot  timeslot.Timeslot
}

func flattenSorted(pads map[uuid.UUID][]timeslot.Timeslot) []padSlot {
	var out []padSlot
	for id, slots := range pads {
		for _, s := range slots {
			out = append(out, padSlot{padID: id, slot: s})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].slot.Start.Before(out[j].slot.Start) })
	return out
}

// BuildPairs finds every feasible (origin pad timeslot, target pad
// timeslot) combination between originVertiportID and targetVertiportID,
// attaching the oracle's best path and the resulting clipped timeslots
// for each, per spec.md §4.6 / original's get_vertipad_timeslot_pairs.
// At most one route is considered per (origin slot, target slot)
// candidate — the oracle's first (shortest) result.
func BuildPairs(
	ctx context.Context,
	originVertiportID, targetVertiportID uuid.UUID,
	originPads, targetPads map[uuid.UUID][]timeslot.Timeslot,
	client *pathing.Client,
) ([]Pair, error) {
	origins := flattenSorted(originPads)
	targets := flattenSorted(targetPads)

	var pairs []Pair

	for _, o := range origins {
	targetLoop:
		for _, tgt := range targets {
			// No overlap possible: departing at the earliest in o can never
			// land inside a target window that already closed.
			if !o.slot.Start.Before(tgt.slot.End) {
				continue
			}

			routes, err := client.BestPath(ctx, originVertiportID, targetVertiportID, o.slot.Start, tgt.slot.End)
			if err != nil {
				return nil, err // ClientError: propagate immediately per spec.md §4.5
			}
			if len(routes) == 0 {
				break targetLoop // no route for this departure window; try the next origin slot
			}
			route := routes[0]

			duration := pathing.EstimateFlightDuration(route.DistanceMeters)

			// Sorted targets: once departing at the end of o plus flight time
			// lands before this target window even opens, no later target
			// slot (opening later still) can work either.
			if o.slot.End.Add(duration).Before(tgt.slot.Start) {
				break
			}

			originStart := o.slot.Start
			if tgt.slot.Start.Add(-duration).After(originStart) {
				originStart = tgt.slot.Start.Add(-duration)
			}
			originEnd := o.slot.End
			if tgt.slot.End.Add(-duration).Before(originEnd) {
				originEnd = tgt.slot.End.Add(-duration)
			}
			originWindow, err := timeslot.New(originStart, originEnd)
			if err != nil {
				continue
			}

			targetStart := tgt.slot.Start
			if originWindow.Start.Add(duration).After(targetStart) {
				targetStart = originWindow.Start.Add(duration)
			}
			targetEnd := tgt.slot.End
			if originWindow.End.Add(duration).Before(targetEnd) {
				targetEnd = originWindow.End.Add(duration)
			}
			targetWindow, err := timeslot.New(targetStart, targetEnd)
			if err != nil {
				continue
			}

			pairs = append(pairs, Pair{
				OriginVertiportID: originVertiportID,
				OriginVertipadID:  o.padID,
				OriginTimeslot:    originWindow,
				TargetVertiportID: targetVertiportID,
				TargetVertipadID:  tgt.padID,
				TargetTimeslot:    targetWindow,
				Waypoints:         route.Waypoints,
				DistanceMeters:    route.DistanceMeters,
			})
		}
	}

	if len(pairs) == 0 {
		return nil, apperrors.New(apperrors.ErrorTypeNoPathFound, "no feasible origin/target timeslot pairing")
	}
	return pairs, nil
}

// toFlightPlan renders a Pair as the primary (requested) leg for a given
// vehicle, with concrete origin/target timeslot starts filled in by the
// caller once the aircraft's available gap is known.
func (p Pair) toFlightPlan(vehicleID uuid.UUID) flightplan.Schedule {
	return flightplan.Schedule{
		OriginVertiportID: p.OriginVertiportID,
		OriginVertipadID:  p.OriginVertipadID,
		TargetVertiportID: p.TargetVertiportID,
		TargetVertipadID:  p.TargetVertipadID,
		VehicleID:         vehicleID,
		Path:              p.Waypoints,
	}
}
