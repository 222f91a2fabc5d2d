package worker

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/storageclient"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/taskqueue"
)

// cancelItinerary cancels an itinerary and every flight plan linked to
// it. Grounded on
// original_source/server/src/tasks/cancel_itinerary.rs: per-flight-plan
// update failures are logged and do not abort the task, matching the
// original's tolerant fan-out.
func (w *Worker) cancelItinerary(ctx context.Context, task taskqueue.Task) error {
	itineraryID := task.Body.CancelItineraryID

	it, err := w.deps.Storage.Itinerary.GetByID(ctx, itineraryID)
	if err != nil {
		return err
	}
	if it.Status != storageclient.ItineraryStatusActive {
		return apperrors.New(apperrors.ErrorTypeInvalidData, "itinerary is not active")
	}

	it.Status = storageclient.ItineraryStatusCancelled
	if err := w.deps.Storage.Itinerary.Update(ctx, itineraryID, it); err != nil {
		return err
	}

	flightPlanIDs, err := w.deps.Storage.ItineraryFlightPlanLink.GetLinkedIDs(ctx, itineraryID)
	if err != nil {
		return err
	}

	for _, fpID := range flightPlanIDs {
		if err := cancelFlightPlan(ctx, w.deps.Storage, fpID); err != nil {
			w.deps.Logger.Error(err, "failed to cancel linked flight plan", "flightPlanID", fpID, "itineraryID", itineraryID)
		}
	}

	return nil
}

// cancelFlightPlan loads a single flight plan by id and writes the whole
// record back with Status set to Cancelled and every other field as read.
func cancelFlightPlan(ctx context.Context, storage storageclient.Clients, fpID uuid.UUID) error {
	fp, err := storage.FlightPlan.GetByID(ctx, fpID)
	if err != nil {
		return err
	}
	fp.Status = flightplan.StatusCancelled
	return storage.FlightPlan.Update(ctx, fpID, fp)
}
