package worker

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/availability"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/geoclient"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/storageclient"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/taskqueue"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/timeslot"
)

// createItinerary re-validates a proposed sequence of flight-plan legs
// against the current state of the world and, if it still holds,
// commits it: storage rows, a registered geospatial path, an itinerary
// row, and the itinerary/flight-plan links. Returns the new itinerary id
// as the task result. Grounded on
// original_source/server/src/tasks/create_itinerary.rs's
// register_flight_plans/create_itinerary.
func (w *Worker) createItinerary(ctx context.Context, task taskqueue.Task) (string, error) {
	legs := task.Body.CreateItineraryPlans
	if err := validateLegSequence(legs); err != nil {
		return "", err
	}

	windowStart := legs[0].OriginTimeslotStart
	windowEnd := legs[len(legs)-1].TargetTimeslotEnd

	for _, leg := range legs {
		intersects, err := w.deps.Oracle.CheckIntersection(ctx, leg.Path, leg.OriginTimeslotStart, leg.TargetTimeslotEnd, leg.OriginVertiportID, leg.TargetVertiportID)
		if err != nil {
			return "", err
		}
		if intersects {
			return "", apperrors.New(apperrors.ErrorTypeScheduleConflict, "proposed path intersects reserved airspace")
		}
	}

	vehicleID := legs[0].VehicleID
	vehicle, err := w.deps.Storage.Vehicle.GetByID(ctx, vehicleID)
	if err != nil {
		return "", err
	}

	existingPlans, err := w.fetchTouchingPlans(ctx, legs, vehicleID)
	if err != nil {
		return "", err
	}

	window, err := timeslot.New(windowStart, windowEnd)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrorTypeInvalidData, "invalid aircraft time window")
	}

	if err := assertAircraftAvailable(vehicle, existingPlans, windowStart, window); err != nil {
		return "", err
	}

	for _, leg := range legs {
		if err := assertVertipadAvailable(ctx, w.deps.Storage, existingPlans, leg.OriginVertiportID, leg.OriginVertipadID, leg.OriginTimeslotStart, leg.OriginTimeslotEnd); err != nil {
			return "", err
		}
		if err := assertVertipadAvailable(ctx, w.deps.Storage, existingPlans, leg.TargetVertiportID, leg.TargetVertipadID, leg.TargetTimeslotStart, leg.TargetTimeslotEnd); err != nil {
			return "", err
		}
	}

	flightPlanIDs := make([]uuid.UUID, 0, len(legs))
	for _, leg := range legs {
		id, err := w.deps.Storage.FlightPlan.Insert(ctx, leg)
		if err != nil {
			return "", err
		}
		flightPlanIDs = append(flightPlanIDs, id)

		if err := w.deps.Geo.UpdateFlightPath(ctx, geoclient.UpdateFlightPathRequest{
			FlightIdentifier:   id.String(),
			AircraftIdentifier: vehicleID.String(),
			Path:               leg.Path,
			TimeStart:          leg.OriginTimeslotStart,
			TimeEnd:            leg.TargetTimeslotEnd,
		}); err != nil {
			return "", err
		}
	}

	itineraryID, err := w.deps.Storage.Itinerary.Insert(ctx, storageclient.Itinerary{
		UserID: task.Metadata.UserID,
		Status: storageclient.ItineraryStatusActive,
	})
	if err != nil {
		return "", err
	}

	if err := w.deps.Storage.ItineraryFlightPlanLink.Link(ctx, itineraryID, flightPlanIDs); err != nil {
		return "", err
	}

	return itineraryID.String(), nil
}

// validateLegSequence checks spec.md §4.9.1's sequence invariants:
// contiguous vertipads, a single vehicle, and strictly ordered,
// non-overlapping timeslots.
func validateLegSequence(legs []flightplan.Schedule) error {
	if len(legs) == 0 {
		return apperrors.New(apperrors.ErrorTypeInvalidData, "create-itinerary task carries no flight plans")
	}
	vehicleID := legs[0].VehicleID
	for i, leg := range legs {
		if leg.VehicleID != vehicleID {
			return apperrors.New(apperrors.ErrorTypeInvalidData, "all legs must share the same vehicle")
		}
		if !leg.OriginTimeslotStart.Before(leg.TargetTimeslotEnd) {
			return apperrors.New(apperrors.ErrorTypeInvalidData, "leg has invalid departure and arrival times")
		}
		if i == 0 {
			continue
		}
		prev := legs[i-1]
		if prev.TargetVertipadID != leg.OriginVertipadID {
			return apperrors.New(apperrors.ErrorTypeInvalidData, "legs are not contiguous: target pad must match next origin pad")
		}
		if leg.OriginTimeslotStart.Before(prev.TargetTimeslotEnd) {
			return apperrors.New(apperrors.ErrorTypeInvalidData, "legs overlap or are out of order")
		}
	}
	return nil
}

// fetchTouchingPlans fetches existing active flight plans touching any
// vertipad referenced by legs, or the proposed vehicle (spec.md §4.9.1
// step 5).
func (w *Worker) fetchTouchingPlans(ctx context.Context, legs []flightplan.Schedule, vehicleID uuid.UUID) ([]flightplan.Schedule, error) {
	padIDs := make([]string, 0, len(legs)*2)
	for _, leg := range legs {
		padIDs = append(padIDs, leg.OriginVertipadID.String(), leg.TargetVertipadID.String())
	}
	plans, err := w.deps.Storage.FlightPlan.Search(ctx, storageclient.Filter{
		In:     map[string][]string{"vertipad_id": padIDs},
		Equals: map[string]string{"vehicle_id": vehicleID.String()},
	})
	if err != nil {
		return nil, err
	}
	active := plans[:0]
	for _, fp := range plans {
		if fp.Status == flightplan.StatusActive {
			active = append(active, fp)
		}
	}
	plans = active
	// assertAircraftAvailable's AircraftTimeslots walk requires its input
	// ordered by origin start, the same precondition the main query path
	// (pkg/scheduler.queryDependencies) upholds and
	// original_source/server/src/router/flight_plan.rs's
	// get_sorted_flight_plans always provides.
	flightplan.SortByOriginStart(plans)
	return plans, nil
}

// assertAircraftAvailable recomputes aircraft availability and asserts
// the whole [windowStart, window.End] span is covered at the aircraft's
// current vertiport/vertipad, per spec.md §4.9.1 step 6.
func assertAircraftAvailable(vehicle storageclient.Vehicle, existingPlans []flightplan.Schedule, windowStart time.Time, window timeslot.Timeslot) error {
	fleet := []availability.Aircraft{{
		ID:            vehicle.ID,
		HangarID:      vehicle.HangarID,
		HangarBayID:   vehicle.HangarBayID,
		ScheduleRules: vehicle.Schedule,
	}}
	slots, err := availability.AircraftTimeslots(fleet, existingPlans, windowStart, window)
	if err != nil {
		return err
	}
	for _, slot := range slots[vehicle.ID] {
		if !slot.Timeslot.Start.After(window.Start) && !slot.Timeslot.End.Before(window.End) {
			return nil
		}
	}
	return apperrors.New(apperrors.ErrorTypeScheduleConflict, "aircraft is no longer available for the full proposed window")
}

// assertVertipadAvailable recomputes vertipadID's vertiport availability
// and asserts [start, end] still fits within a free slot, per spec.md
// §4.9.1 step 7. Called once per leg endpoint (origin and target).
func assertVertipadAvailable(ctx context.Context, storage storageclient.Clients, existingPlans []flightplan.Schedule, vertiportID, vertipadID uuid.UUID, start, end time.Time) error {
	vertiportRow, err := storage.Vertiport.GetByID(ctx, vertiportID)
	if err != nil {
		return err
	}
	vertiport := availability.Vertiport{ID: vertiportRow.ID, Schedule: vertiportRow.Schedule}
	pads := []availability.Vertipad{{ID: vertipadID, VertiportID: vertiportID}}

	window, err := timeslot.New(start, end)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeInvalidData, "invalid leg timeslot")
	}

	freeSlots, err := availability.VertiportTimeslots(vertiport, pads, existingPlans, window, end.Sub(start))
	if err != nil {
		return err
	}
	for _, slot := range freeSlots[vertipadID] {
		if !slot.Start.After(window.Start) && !slot.End.Before(window.End) {
			return nil
		}
	}
	return apperrors.New(apperrors.ErrorTypeScheduleConflict, "vertipad is no longer available for the proposed leg")
}
