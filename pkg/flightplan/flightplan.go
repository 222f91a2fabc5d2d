// Package flightplan projects persisted flight-plan rows into the compact,
// sortable FlightPlanSchedule the scheduling engine operates on (spec.md
// §3, bullet 2). Grounded on
// original_source/server/src/router/flight_plan.rs: the same required
// fields, the same origin-start-before-target-end invariant, and the same
// sort-by-origin-start ordering, reimplemented against
// pkg/storageclient's typed rows instead of the original's generated gRPC
// structs.
package flightplan

import (
	"sort"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
)

// Point3D is a single waypoint along a flight path, mirroring PointZ from
// the geospatial oracle's wire format (spec.md §4.5).
type Point3D struct {
	Latitude       float64
	Longitude      float64
	AltitudeMeters float32
}

// Status is a flight plan's lifecycle flag. The zero value, StatusActive,
// is what every plan produced by itinerary search carries; availability
// queries and §4.7 step 6's storage filter both only consider Active
// plans "existing."
type Status int

const (
	StatusActive Status = iota
	StatusCancelled
)

// Schedule is the scheduler's working projection of a flight-plan record:
// origin/target vertiport+vertipad, the reserved timeslots at each end,
// the assigned aircraft, and an optional computed path. Sortable by
// OriginTimeslotStart.
type Schedule struct {
	OriginVertiportID   uuid.UUID
	OriginVertipadID    uuid.UUID
	OriginTimeslotStart time.Time
	OriginTimeslotEnd   time.Time
	TargetVertiportID   uuid.UUID
	TargetVertipadID    uuid.UUID
	TargetTimeslotStart time.Time
	TargetTimeslotEnd   time.Time
	VehicleID           uuid.UUID
	Status              Status
	Path                []Point3D // nil when no path has been computed yet
}

// Row is the subset of a persisted flight-plan record needed to build a
// Schedule. Optional fields are pointers so a missing value can be
// distinguished from a zero value, mirroring the original's Option<T>
// fields that each fail projection when absent.
type Row struct {
	OriginVertiportID   *string
	OriginVertipadID    string
	OriginTimeslotStart *time.Time
	OriginTimeslotEnd   *time.Time
	TargetVertiportID   *string
	TargetVertipadID    string
	TargetTimeslotStart *time.Time
	TargetTimeslotEnd   *time.Time
	VehicleID           string
	Status              Status
	Path                []Point3D
}

// FromRow validates and projects a persisted Row into a Schedule. Fails
// with ErrorTypeData when a required field is absent or malformed, per
// the original's FlightPlanError::Data — one error type covers every
// missing-field and bad-UUID case, since none of them are independently
// actionable by a caller.
func FromRow(row Row) (Schedule, error) {
	if row.OriginTimeslotStart == nil {
		return Schedule{}, apperrors.New(apperrors.ErrorTypeData, "flight plan has no scheduled origin start")
	}
	if row.OriginTimeslotEnd == nil {
		return Schedule{}, apperrors.New(apperrors.ErrorTypeData, "flight plan has no scheduled origin end")
	}
	if row.TargetTimeslotStart == nil {
		return Schedule{}, apperrors.New(apperrors.ErrorTypeData, "flight plan has no scheduled target start")
	}
	if row.TargetTimeslotEnd == nil {
		return Schedule{}, apperrors.New(apperrors.ErrorTypeData, "flight plan has no scheduled target end")
	}

	if !row.OriginTimeslotStart.Before(*row.TargetTimeslotEnd) {
		return Schedule{}, apperrors.New(apperrors.ErrorTypeData, "flight plan has invalid departure and arrival times")
	}

	vehicleID, err := uuid.Parse(row.VehicleID)
	if err != nil {
		return Schedule{}, apperrors.Wrapf(err, apperrors.ErrorTypeData, "flight plan has invalid vehicle id %q", row.VehicleID)
	}

	if row.OriginVertiportID == nil {
		return Schedule{}, apperrors.New(apperrors.ErrorTypeData, "flight plan has no origin vertiport")
	}
	originVertiportID, err := uuid.Parse(*row.OriginVertiportID)
	if err != nil {
		return Schedule{}, apperrors.Wrapf(err, apperrors.ErrorTypeData, "flight plan has invalid origin vertiport %q", *row.OriginVertiportID)
	}

	if row.TargetVertiportID == nil {
		return Schedule{}, apperrors.New(apperrors.ErrorTypeData, "flight plan has no target vertiport")
	}
	targetVertiportID, err := uuid.Parse(*row.TargetVertiportID)
	if err != nil {
		return Schedule{}, apperrors.Wrapf(err, apperrors.ErrorTypeData, "flight plan has invalid target vertiport %q", *row.TargetVertiportID)
	}

	originVertipadID, err := uuid.Parse(row.OriginVertipadID)
	if err != nil {
		return Schedule{}, apperrors.Wrapf(err, apperrors.ErrorTypeData, "flight plan has invalid origin vertipad %q", row.OriginVertipadID)
	}
	targetVertipadID, err := uuid.Parse(row.TargetVertipadID)
	if err != nil {
		return Schedule{}, apperrors.Wrapf(err, apperrors.ErrorTypeData, "flight plan has invalid target vertipad %q", row.TargetVertipadID)
	}

	return Schedule{
		OriginVertiportID:   originVertiportID,
		OriginVertipadID:    originVertipadID,
		OriginTimeslotStart: *row.OriginTimeslotStart,
		OriginTimeslotEnd:   *row.OriginTimeslotEnd,
		TargetVertiportID:   targetVertiportID,
		TargetVertipadID:    targetVertipadID,
		TargetTimeslotStart: *row.TargetTimeslotStart,
		TargetTimeslotEnd:   *row.TargetTimeslotEnd,
		VehicleID:           vehicleID,
		Status:              row.Status,
		Path:                row.Path,
	}, nil
}

// ToRow is FromRow's inverse, used on the write path: a storage-service
// adapter persists this Row representation rather than a Schedule
// directly, the same row shape FromRow later re-projects on read.
func ToRow(s Schedule) Row {
	originVertiportID := s.OriginVertiportID.String()
	targetVertiportID := s.TargetVertiportID.String()
	return Row{
		OriginVertiportID:   &originVertiportID,
		OriginVertipadID:    s.OriginVertipadID.String(),
		OriginTimeslotStart: &s.OriginTimeslotStart,
		OriginTimeslotEnd:   &s.OriginTimeslotEnd,
		TargetVertiportID:   &targetVertiportID,
		TargetVertipadID:    s.TargetVertipadID.String(),
		TargetTimeslotStart: &s.TargetTimeslotStart,
		TargetTimeslotEnd:   &s.TargetTimeslotEnd,
		VehicleID:           s.VehicleID.String(),
		Status:              s.Status,
		Path:                s.Path,
	}
}

// SortByOriginStart sorts schedules ascending by OriginTimeslotStart,
// matching the original's Ord implementation (comparison is solely on
// that field).
func SortByOriginStart(schedules []Schedule) {
	sort.Slice(schedules, func(i, j int) bool {
		return schedules[i].OriginTimeslotStart.Before(schedules[j].OriginTimeslotStart)
	})
}

// ForVehicle filters schedules to those assigned to vehicleID, preserving
// order.
func ForVehicle(schedules []Schedule, vehicleID uuid.UUID) []Schedule {
	var out []Schedule
	for _, s := range schedules {
		if s.VehicleID == vehicleID {
			out = append(out, s)
		}
	}
	return out
}
