package mock

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/storageclient"
)

func TestVertiportInsertAndGet(t *testing.T) {
	store := NewStore()
	clients := store.Clients()
	ctx := context.Background()

	inserted, err := clients.Vertiport.Insert(ctx, storageclient.Vertiport{Schedule: "RRULE:FREQ=DAILY"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if inserted.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}

	got, err := clients.Vertiport.GetByID(ctx, inserted.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Schedule != "RRULE:FREQ=DAILY" {
		t.Fatalf("unexpected schedule: %s", got.Schedule)
	}
}

func TestVertiportGetByIDNotFound(t *testing.T) {
	store := NewStore()
	clients := store.Clients()

	_, err := clients.Vertiport.GetByID(context.Background(), uuid.New())
	if err == nil || !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		t.Fatalf("expected ErrorTypeNotFound, got %v", err)
	}
}

func TestVertipadSearchFiltersByVertiportID(t *testing.T) {
	store := NewStore()
	clients := store.Clients()
	ctx := context.Background()

	vertiportA := uuid.New()
	vertiportB := uuid.New()
	store.SeedVertipad(storageclient.Vertipad{ID: uuid.New(), VertiportID: vertiportA})
	store.SeedVertipad(storageclient.Vertipad{ID: uuid.New(), VertiportID: vertiportB})

	results, err := clients.Vertipad.Search(ctx, storageclient.Filter{Equals: map[string]string{"vertiport_id": vertiportA.String()}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].VertiportID != vertiportA {
		t.Fatalf("expected one vertipad for vertiport A, got %+v", results)
	}
}

func TestItineraryLinkAndGetLinkedIDs(t *testing.T) {
	store := NewStore()
	clients := store.Clients()
	ctx := context.Background()

	itineraryID, err := clients.Itinerary.Insert(ctx, storageclient.Itinerary{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("Insert itinerary: %v", err)
	}

	fp1 := uuid.New()
	fp2 := uuid.New()
	if err := clients.ItineraryFlightPlanLink.Link(ctx, itineraryID, []uuid.UUID{fp1, fp2}); err != nil {
		t.Fatalf("Link: %v", err)
	}

	ids, err := clients.ItineraryFlightPlanLink.GetLinkedIDs(ctx, itineraryID)
	if err != nil {
		t.Fatalf("GetLinkedIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 linked ids, got %d", len(ids))
	}
}

func TestItineraryUpdateStatus(t *testing.T) {
	store := NewStore()
	clients := store.Clients()
	ctx := context.Background()

	itineraryID, err := clients.Itinerary.Insert(ctx, storageclient.Itinerary{UserID: uuid.New(), Status: storageclient.ItineraryStatusActive})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	it, err := clients.Itinerary.GetByID(ctx, itineraryID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	it.Status = storageclient.ItineraryStatusCancelled
	if err := clients.Itinerary.Update(ctx, itineraryID, it); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := clients.Itinerary.GetByID(ctx, itineraryID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.Status != storageclient.ItineraryStatusCancelled {
		t.Fatalf("expected Cancelled, got %v", got.Status)
	}
}

// TestFlightPlanRoundTripsThroughRow guards the flightPlanRepo's
// Row-backed storage: Insert projects a Schedule down to a raw Row, and
// Search/GetByID must project it back via flightplan.FromRow rather than
// handing back a stale typed value.
func TestFlightPlanRoundTripsThroughRow(t *testing.T) {
	store := NewStore()
	clients := store.Clients()
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	fp := flightplan.Schedule{
		OriginVertiportID:   uuid.New(),
		OriginVertipadID:    uuid.New(),
		OriginTimeslotStart: start,
		OriginTimeslotEnd:   start.Add(10 * time.Minute),
		TargetVertiportID:   uuid.New(),
		TargetVertipadID:    uuid.New(),
		TargetTimeslotStart: start.Add(20 * time.Minute),
		TargetTimeslotEnd:   start.Add(30 * time.Minute),
		VehicleID:           uuid.New(),
	}

	id, err := clients.FlightPlan.Insert(ctx, fp)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := clients.FlightPlan.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.VehicleID != fp.VehicleID || !got.OriginTimeslotStart.Equal(fp.OriginTimeslotStart) {
		t.Fatalf("round-tripped schedule mismatch: got %+v want %+v", got, fp)
	}

	results, err := clients.FlightPlan.Search(ctx, storageclient.Filter{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 flight plan, got %d", len(results))
	}
}

// TestFlightPlanSearchDropsMalformedRow guards flightPlanRepo.Search's
// silent-drop behavior: a row that fails FromRow's validation must be
// excluded from the result set rather than failing the whole query.
func TestFlightPlanSearchDropsMalformedRow(t *testing.T) {
	store := NewStore()
	clients := store.Clients()
	ctx := context.Background()

	store.SeedFlightPlan(uuid.New(), flightplan.Schedule{}) // zero-value: origin start not before target end

	results, err := clients.FlightPlan.Search(ctx, storageclient.Filter{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected malformed row to be dropped, got %d results", len(results))
	}
}
