package itinerary

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/availability"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/pathing"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/timeslot"
)

// Search composes the given timeslot pairs with each aircraft's
// availability gaps into a list of candidate itineraries, one per
// aircraft at most, sorted ascending by Itinerary.DistanceMeters (the
// primary leg's pair distance; deadhead legs are not counted), per spec.md
// §4.6 / original's get_itineraries. A ClientError from the pathing
// oracle aborts the whole search immediately rather than silently
// skipping the affected aircraft.
func Search(ctx context.Context, pairs []Pair, aircraftGaps map[uuid.UUID][]availability.Availability, client *pathing.Client) ([]Itinerary, error) {
	var results []Itinerary

	for aircraftID, gaps := range aircraftGaps {
		for _, pair := range pairs {
			duration := pathing.EstimateFlightDuration(pair.DistanceMeters)
			flightWindow, err := timeslot.New(pair.OriginTimeslot.Start, pair.TargetTimeslot.End)
			if err != nil {
				continue
			}

			it, err := aircraftSelection(ctx, aircraftID, pair, gaps, duration, flightWindow, client)
			if err != nil {
				if apperrors.IsType(err, apperrors.ErrorTypeClient) {
					return nil, err
				}
				continue
			}
			results = append(results, it)
			break // at most one itinerary per aircraft (original's TODO(R4))
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].DistanceMeters < results[j].DistanceMeters })
	return results, nil
}

// aircraftSelection walks an aircraft's availability gaps and returns the
// first one that can accommodate pair, per original's aircraft_selection.
func aircraftSelection(
	ctx context.Context,
	aircraftID uuid.UUID,
	pair Pair,
	gaps []availability.Availability,
	duration time.Duration,
	flightWindow timeslot.Timeslot,
	client *pathing.Client,
) (Itinerary, error) {
	for _, gap := range gaps {
		legs, err := buildItinerary(ctx, aircraftID, pair, gap, duration, flightWindow, client)
		if err == nil {
			return Itinerary{Legs: legs, DistanceMeters: pair.DistanceMeters}, nil
		}
		if apperrors.IsType(err, apperrors.ErrorTypeClient) {
			return Itinerary{}, err
		}
	}
	return Itinerary{}, apperrors.New(apperrors.ErrorTypeScheduleConflict, "no availability gap can accommodate the requested flight")
}

// buildItinerary determines whether gap can host pair's primary leg,
// optionally prefixing a deadhead leg from the aircraft's current
// location to the origin vertiport and suffixing a deadhead leg from the
// target vertiport back to the aircraft's gap location, per original's
// get_itinerary.
func buildItinerary(
	ctx context.Context,
	aircraftID uuid.UUID,
	pair Pair,
	gap availability.Availability,
	flightDuration time.Duration,
	flightWindow timeslot.Timeslot,
	client *pathing.Client,
) ([]flightplan.Schedule, error) {
	overlap, err := timeslot.Overlap(gap.Timeslot, flightWindow)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeScheduleConflict, "no overlap between flight window and available timeslot")
	}

	var legs []flightplan.Schedule

	if pair.OriginVertiportID != gap.VertiportID {
		routes, err := client.BestPath(ctx, gap.VertiportID, pair.OriginVertiportID, gap.Timeslot.Start, overlap.End)
		if err != nil {
			return nil, err
		}
		if len(routes) == 0 {
			return nil, apperrors.New(apperrors.ErrorTypeNoPathFound, "no deadhead path to origin vertiport")
		}
		route := routes[0]
		deadheadDuration := pathing.EstimateFlightDuration(route.DistanceMeters)

		originStart := gap.Timeslot.Start
		if flightWindow.Start.Add(-deadheadDuration).After(originStart) {
			originStart = flightWindow.Start.Add(-deadheadDuration)
		}
		targetStart := originStart.Add(deadheadDuration)
		if targetStart.After(gap.Timeslot.End) {
			return nil, apperrors.New(apperrors.ErrorTypeScheduleConflict, "pre-positioning deadhead would end after available timeslot")
		}

		legs = append(legs, flightplan.Schedule{
			OriginVertiportID:   gap.VertiportID,
			OriginVertipadID:    gap.VertipadID,
			OriginTimeslotStart: originStart,
			OriginTimeslotEnd:   originStart,
			TargetVertiportID:   pair.OriginVertiportID,
			TargetVertipadID:    pair.OriginVertipadID,
			TargetTimeslotStart: targetStart,
			TargetTimeslotEnd:   targetStart,
			VehicleID:           aircraftID,
			Path:                route.Waypoints,
		})
	}

	originStart := flightWindow.Start
	if len(legs) > 0 {
		originStart = legs[len(legs)-1].TargetTimeslotStart
	} else if gap.Timeslot.Start.After(originStart) {
		originStart = gap.Timeslot.Start
	}
	targetStart := originStart.Add(flightDuration)
	if targetStart.After(gap.Timeslot.End) {
		return nil, apperrors.New(apperrors.ErrorTypeScheduleConflict, "primary flight plan would end after available timeslot")
	}
	if targetStart.After(flightWindow.End) {
		return nil, apperrors.New(apperrors.ErrorTypeScheduleConflict, "primary flight plan would end after flight window")
	}

	primary := pair.toFlightPlan(aircraftID)
	primary.OriginTimeslotStart = originStart
	primary.OriginTimeslotEnd = originStart
	primary.TargetTimeslotStart = targetStart
	primary.TargetTimeslotEnd = targetStart
	legs = append(legs, primary)

	if pair.TargetVertiportID != gap.VertiportID {
		last := legs[len(legs)-1]

		routes, err := client.BestPath(ctx, pair.TargetVertiportID, gap.VertiportID, last.TargetTimeslotStart, gap.Timeslot.End)
		if err != nil {
			return nil, err
		}
		if len(routes) == 0 {
			return nil, apperrors.New(apperrors.ErrorTypeNoPathFound, "no deadhead path back to aircraft's location")
		}
		route := routes[0]
		postDuration := pathing.EstimateFlightDuration(route.DistanceMeters)

		postOriginStart := last.TargetTimeslotStart
		postTargetStart := postOriginStart.Add(postDuration)
		if postTargetStart.After(gap.Timeslot.End) {
			return nil, apperrors.New(apperrors.ErrorTypeScheduleConflict, "post-positioning deadhead would end after available timeslot")
		}

		legs = append(legs, flightplan.Schedule{
			OriginVertiportID:   last.TargetVertiportID,
			OriginVertipadID:    last.TargetVertipadID,
			OriginTimeslotStart: postOriginStart,
			OriginTimeslotEnd:   postOriginStart,
			TargetVertiportID:   gap.VertiportID,
			TargetVertipadID:    gap.VertipadID,
			TargetTimeslotStart: postTargetStart,
			TargetTimeslotEnd:   postTargetStart,
			VehicleID:           aircraftID,
			Path:                route.Waypoints,
		})
	}

	return legs, nil
}
