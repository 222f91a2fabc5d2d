// Package mock provides an in-memory implementation of every
// pkg/storageclient collection, following kubernaut's convention of a
// hand-rolled mock living next to the real client rather than a
// mockgen-generated file.
package mock

import (
	"context"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/storageclient"
)

// Store is an in-memory backing for every collection mock, so tests can
// share state across repos the way a single storage-service instance
// would.
type Store struct {
	mu sync.Mutex

	vertiports  map[uuid.UUID]storageclient.Vertiport
	vertipads   map[uuid.UUID]storageclient.Vertipad
	vehicles    map[uuid.UUID]storageclient.Vehicle
	flightPlans map[uuid.UUID]flightplan.Row
	itineraries map[uuid.UUID]storageclient.Itinerary
	links       map[uuid.UUID][]uuid.UUID
}

// NewStore builds an empty in-memory store.
func NewStore() *Store {
	return &Store{
		vertiports:  make(map[uuid.UUID]storageclient.Vertiport),
		vertipads:   make(map[uuid.UUID]storageclient.Vertipad),
		vehicles:    make(map[uuid.UUID]storageclient.Vehicle),
		flightPlans: make(map[uuid.UUID]flightplan.Row),
		itineraries: make(map[uuid.UUID]storageclient.Itinerary),
		links:       make(map[uuid.UUID][]uuid.UUID),
	}
}

// Clients builds a storageclient.Clients backed entirely by s.
func (s *Store) Clients() storageclient.Clients {
	return storageclient.Clients{
		Vertiport:               &vertiportRepo{s},
		Vertipad:                &vertipadRepo{s},
		Vehicle:                 &vehicleRepo{s},
		FlightPlan:              &flightPlanRepo{s},
		Itinerary:               &itineraryRepo{s},
		ItineraryFlightPlanLink: &linkRepo{s},
	}
}

// SeedVertiport inserts v directly, bypassing Insert's generated id, for
// test fixtures that need a known id.
func (s *Store) SeedVertiport(v storageclient.Vertiport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vertiports[v.ID] = v
}

// SeedVertipad inserts p directly.
func (s *Store) SeedVertipad(p storageclient.Vertipad) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vertipads[p.ID] = p
}

// SeedVehicle inserts v directly.
func (s *Store) SeedVehicle(v storageclient.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles[v.ID] = v
}

// SeedFlightPlan inserts fp directly under id, storing it in the same raw
// Row form a real storage-service row would arrive in, so Search and
// GetByID exercise flightplan.FromRow the same way they would against a
// live backend.
func (s *Store) SeedFlightPlan(id uuid.UUID, fp flightplan.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flightPlans[id] = flightplan.ToRow(fp)
}

type vertiportRepo struct{ s *Store }

func (r *vertiportRepo) Search(ctx context.Context, filter storageclient.Filter) ([]storageclient.Vertiport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]storageclient.Vertiport, 0, len(r.s.vertiports))
	for _, v := range r.s.vertiports {
		out = append(out, v)
	}
	return out, nil
}

func (r *vertiportRepo) GetByID(ctx context.Context, id uuid.UUID) (storageclient.Vertiport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vertiports[id]
	if !ok {
		return storageclient.Vertiport{}, apperrors.NewNotFoundError("vertiport")
	}
	return v, nil
}

func (r *vertiportRepo) Insert(ctx context.Context, v storageclient.Vertiport) (storageclient.Vertiport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.s.vertiports[v.ID] = v
	return v, nil
}

func (r *vertiportRepo) Update(ctx context.Context, id uuid.UUID, v storageclient.Vertiport) (storageclient.Vertiport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vertiports[id]; !ok {
		return storageclient.Vertiport{}, apperrors.NewNotFoundError("vertiport")
	}
	v.ID = id
	r.s.vertiports[id] = v
	return v, nil
}

type vertipadRepo struct{ s *Store }

func (r *vertipadRepo) Search(ctx context.Context, filter storageclient.Filter) ([]storageclient.Vertipad, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]storageclient.Vertipad, 0, len(r.s.vertipads))
	for _, p := range r.s.vertipads {
		if vertiportID, ok := filter.Equals["vertiport_id"]; ok && p.VertiportID.String() != vertiportID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *vertipadRepo) GetByID(ctx context.Context, id uuid.UUID) (storageclient.Vertipad, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.vertipads[id]
	if !ok {
		return storageclient.Vertipad{}, apperrors.NewNotFoundError("vertipad")
	}
	return p, nil
}

func (r *vertipadRepo) Insert(ctx context.Context, p storageclient.Vertipad) (storageclient.Vertipad, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.s.vertipads[p.ID] = p
	return p, nil
}

func (r *vertipadRepo) Update(ctx context.Context, id uuid.UUID, p storageclient.Vertipad) (storageclient.Vertipad, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vertipads[id]; !ok {
		return storageclient.Vertipad{}, apperrors.NewNotFoundError("vertipad")
	}
	p.ID = id
	r.s.vertipads[id] = p
	return p, nil
}

type vehicleRepo struct{ s *Store }

func (r *vehicleRepo) Search(ctx context.Context, filter storageclient.Filter) ([]storageclient.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]storageclient.Vehicle, 0, len(r.s.vehicles))
	for _, v := range r.s.vehicles {
		out = append(out, v)
	}
	return out, nil
}

func (r *vehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (storageclient.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vehicles[id]
	if !ok {
		return storageclient.Vehicle{}, apperrors.NewNotFoundError("vehicle")
	}
	return v, nil
}

func (r *vehicleRepo) Insert(ctx context.Context, v storageclient.Vehicle) (storageclient.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.s.vehicles[v.ID] = v
	return v, nil
}

func (r *vehicleRepo) Update(ctx context.Context, id uuid.UUID, v storageclient.Vehicle) (storageclient.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vehicles[id]; !ok {
		return storageclient.Vehicle{}, apperrors.NewNotFoundError("vehicle")
	}
	v.ID = id
	r.s.vehicles[id] = v
	return v, nil
}

// flightPlanRepo is the one collection backed by raw flightplan.Row
// values rather than typed structs directly, so it exercises the same
// row-to-Schedule projection (flightplan.FromRow) a real storage-service
// adapter would need on every read.
type flightPlanRepo struct{ s *Store }

// Search projects every stored row into a Schedule, silently dropping
// any row that fails FromRow rather than failing the whole query — a
// malformed row belongs to one flight plan, not to the search as a
// whole, mirroring the original's per-row Result handling in
// get_sorted_flight_plans.
func (r *flightPlanRepo) Search(ctx context.Context, filter storageclient.Filter) ([]flightplan.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]flightplan.Schedule, 0, len(r.s.flightPlans))
	for _, row := range r.s.flightPlans {
		fp, err := flightplan.FromRow(row)
		if err != nil {
			continue
		}
		out = append(out, fp)
	}
	return out, nil
}

func (r *flightPlanRepo) GetByID(ctx context.Context, id uuid.UUID) (flightplan.Schedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.flightPlans[id]
	if !ok {
		return flightplan.Schedule{}, apperrors.NewNotFoundError("flight plan")
	}
	return flightplan.FromRow(row)
}

func (r *flightPlanRepo) Insert(ctx context.Context, fp flightplan.Schedule) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id := uuid.New()
	r.s.flightPlans[id] = flightplan.ToRow(fp)
	return id, nil
}

func (r *flightPlanRepo) Update(ctx context.Context, id uuid.UUID, fp flightplan.Schedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.flightPlans[id]; !ok {
		return apperrors.NewNotFoundError("flight plan")
	}
	r.s.flightPlans[id] = flightplan.ToRow(fp)
	return nil
}

type itineraryRepo struct{ s *Store }

func (r *itineraryRepo) GetByID(ctx context.Context, id uuid.UUID) (storageclient.Itinerary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.itineraries[id]
	if !ok {
		return storageclient.Itinerary{}, apperrors.NewNotFoundError("itinerary")
	}
	return it, nil
}

func (r *itineraryRepo) Insert(ctx context.Context, it storageclient.Itinerary) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id := uuid.New()
	it.ID = id
	r.s.itineraries[id] = it
	return id, nil
}

func (r *itineraryRepo) Update(ctx context.Context, id uuid.UUID, it storageclient.Itinerary) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.itineraries[id]; !ok {
		return apperrors.NewNotFoundError("itinerary")
	}
	it.ID = id
	r.s.itineraries[id] = it
	return nil
}

type linkRepo struct{ s *Store }

func (r *linkRepo) Link(ctx context.Context, itineraryID uuid.UUID, flightPlanIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.links[itineraryID] = append(r.s.links[itineraryID], flightPlanIDs...)
	return nil
}

func (r *linkRepo) GetLinkedIDs(ctx context.Context, itineraryID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids, ok := r.s.links[itineraryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("itinerary flight plan link")
	}
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)
	return out, nil
}
