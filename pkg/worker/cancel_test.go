package worker

import (
	"context"
	"testing"

	"github.com/google/uuid"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/storageclient"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/taskqueue"
)

func TestCancelItineraryHappyPath(t *testing.T) {
	w, store, _ := newTestWorker(t)
	ctx := context.Background()
	clients := store.Clients()

	itineraryID, err := clients.Itinerary.Insert(ctx, storageclient.Itinerary{UserID: uuid.New(), Status: storageclient.ItineraryStatusActive})
	if err != nil {
		t.Fatalf("Insert itinerary: %v", err)
	}
	fpID, err := clients.FlightPlan.Insert(ctx, flightplan.Schedule{Status: flightplan.StatusActive})
	if err != nil {
		t.Fatalf("Insert flight plan: %v", err)
	}
	if err := clients.ItineraryFlightPlanLink.Link(ctx, itineraryID, []uuid.UUID{fpID}); err != nil {
		t.Fatalf("Link: %v", err)
	}

	task := taskqueue.Task{
		Metadata: taskqueue.Metadata{Status: taskqueue.StatusQueued, Action: taskqueue.ActionCancelItinerary},
		Body:     taskqueue.Body{CancelItineraryID: itineraryID},
	}
	if err := w.cancelItinerary(ctx, task); err != nil {
		t.Fatalf("cancelItinerary: %v", err)
	}

	it, err := clients.Itinerary.GetByID(ctx, itineraryID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if it.Status != storageclient.ItineraryStatusCancelled {
		t.Fatalf("expected Cancelled itinerary, got %v", it.Status)
	}

	fp, err := clients.FlightPlan.GetByID(ctx, fpID)
	if err != nil {
		t.Fatalf("GetByID flight plan: %v", err)
	}
	if fp.Status != flightplan.StatusCancelled {
		t.Fatalf("expected Cancelled flight plan, got %v", fp.Status)
	}
}

func TestCancelItineraryRejectsNonActive(t *testing.T) {
	w, store, _ := newTestWorker(t)
	ctx := context.Background()
	clients := store.Clients()

	itineraryID, err := clients.Itinerary.Insert(ctx, storageclient.Itinerary{UserID: uuid.New(), Status: storageclient.ItineraryStatusCancelled})
	if err != nil {
		t.Fatalf("Insert itinerary: %v", err)
	}

	task := taskqueue.Task{
		Metadata: taskqueue.Metadata{Status: taskqueue.StatusQueued, Action: taskqueue.ActionCancelItinerary},
		Body:     taskqueue.Body{CancelItineraryID: itineraryID},
	}
	err = w.cancelItinerary(ctx, task)
	if err == nil || !apperrors.IsType(err, apperrors.ErrorTypeInvalidData) {
		t.Fatalf("expected ErrorTypeInvalidData, got %v", err)
	}
}
