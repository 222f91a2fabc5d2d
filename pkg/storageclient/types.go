// Package storageclient models the storage service spec.md §6 describes
// as an external collaborator: typed remote collections with a uniform
// search/get_by_id/insert/update shape. Grounded directly on spec.md §6's
// field lists; the pack's teacher keeps no repository source (pgx/sqlx
// appear only in go.mod), so the interface shape is authored fresh
// against the uniform shape the spec names, the way kubernaut's own
// `pkg/storage`-style collaborators are typed interfaces over a remote
// store.
package storageclient

import (
	"context"

	"github.com/google/uuid"

	"github.com/aetheric-oss/svc-scheduler-sub000/pkg/flightplan"
)

// Filter selects rows within a collection. Field names are collection-
// specific; operators follow spec.md §6: IsNull, NotIn, Equals, In,
// OrderBy.
type Filter struct {
	Equals  map[string]string
	In      map[string][]string
	NotIn   map[string][]string
	IsNull  []string
	OrderBy string
}

// ItineraryStatus mirrors the storage service's itinerary lifecycle.
type ItineraryStatus int

const (
	ItineraryStatusActive ItineraryStatus = iota
	ItineraryStatusCancelled
)

// Vertiport is the persisted vertiport row (spec.md §6).
type Vertiport struct {
	ID          uuid.UUID
	GeoLocation flightplan.Point3D
	Schedule    string
}

// Vertipad is the persisted vertipad row.
type Vertipad struct {
	ID          uuid.UUID
	VertiportID uuid.UUID
	Schedule    string
	Enabled     bool
}

// Vehicle is the persisted aircraft row.
type Vehicle struct {
	ID                 uuid.UUID
	HangarID           uuid.UUID
	HangarBayID        uuid.UUID
	Schedule           string
	RegistrationNumber string
}

// Itinerary is the persisted itinerary row.
type Itinerary struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Status ItineraryStatus
}

// VertiportRepo is the typed remote collection for vertiports.
type VertiportRepo interface {
	Search(ctx context.Context, filter Filter) ([]Vertiport, error)
	GetByID(ctx context.Context, id uuid.UUID) (Vertiport, error)
	Insert(ctx context.Context, v Vertiport) (Vertiport, error)
	Update(ctx context.Context, id uuid.UUID, v Vertiport) (Vertiport, error)
}

// VertipadRepo is the typed remote collection for vertipads.
type VertipadRepo interface {
	Search(ctx context.Context, filter Filter) ([]Vertipad, error)
	GetByID(ctx context.Context, id uuid.UUID) (Vertipad, error)
	Insert(ctx context.Context, v Vertipad) (Vertipad, error)
	Update(ctx context.Context, id uuid.UUID, v Vertipad) (Vertipad, error)
}

// VehicleRepo is the typed remote collection for vehicles.
type VehicleRepo interface {
	Search(ctx context.Context, filter Filter) ([]Vehicle, error)
	GetByID(ctx context.Context, id uuid.UUID) (Vehicle, error)
	Insert(ctx context.Context, v Vehicle) (Vehicle, error)
	Update(ctx context.Context, id uuid.UUID, v Vehicle) (Vehicle, error)
}

// FlightPlanRepo is the typed remote collection for flight plans.
type FlightPlanRepo interface {
	Search(ctx context.Context, filter Filter) ([]flightplan.Schedule, error)
	GetByID(ctx context.Context, id uuid.UUID) (flightplan.Schedule, error)
	Insert(ctx context.Context, fp flightplan.Schedule) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, fp flightplan.Schedule) error
}

// ItineraryRepo is the typed remote collection for itineraries.
type ItineraryRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (Itinerary, error)
	Insert(ctx context.Context, it Itinerary) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, it Itinerary) error
}

// ItineraryFlightPlanLinkRepo links itineraries to their flight plans.
type ItineraryFlightPlanLinkRepo interface {
	Link(ctx context.Context, itineraryID uuid.UUID, flightPlanIDs []uuid.UUID) error
	GetLinkedIDs(ctx context.Context, itineraryID uuid.UUID) ([]uuid.UUID, error)
}

// Clients bundles every storage-service collection, the composition
// root's single handle to the storage service (spec.md §9's ClientCtx
// replacing the original's trait-object client abstraction).
type Clients struct {
	Vertiport               VertiportRepo
	Vertipad                VertipadRepo
	Vehicle                 VehicleRepo
	FlightPlan              FlightPlanRepo
	Itinerary               ItineraryRepo
	ItineraryFlightPlanLink ItineraryFlightPlanLinkRepo
}
