// Package constants is the single source of truth for the scheduler's
// tunables (spec.md §3), kept in its own leaf package so every layer —
// including pkg/scheduler itself — can import it without creating an
// import cycle, the way kubernaut isolates shared constants away from
// the packages that depend on each other.
package constants

import "time"

const (
	// AdvanceNoticeMinimum is the minimum lead time between "now" and a
	// query's earliest departure.
	AdvanceNoticeMinimum = 3 * time.Minute

	// MaxQueryWindow is the largest allowed span between earliest
	// departure and latest arrival in a FlightQuery.
	MaxQueryWindow = 720 * time.Minute

	// LoadingBlock is the time a vertipad is occupied for takeoff
	// preparation at a flight plan's origin.
	LoadingBlock = 60 * time.Second

	// UnloadingBlock is the time a vertipad is occupied for landing and
	// unloading at a flight plan's target.
	UnloadingBlock = 60 * time.Second

	// MaxAvailabilitySlotChunk bounds the size of a single availability
	// timeslot after splitting (pkg/timeslot.Split).
	MaxAvailabilitySlotChunk = 30 * time.Minute

	// CruiseVelocityMetersPerSecond is the conservative cruise speed
	// estimate used to convert distance into estimated flight duration.
	CruiseVelocityMetersPerSecond = 10.0

	// LiftoffOverhead and LandingOverhead pad every flight-time estimate,
	// deliberately erring toward over-reserving resources.
	LiftoffOverhead = 10 * time.Second
	LandingOverhead = 10 * time.Second

	// DeadheadPadding extends an aircraft-availability query window on
	// each side to allow pre- and post-positioning legs.
	DeadheadPadding = 2 * time.Hour

	// TaskKeepaliveAfterTerminal is how long a task's record survives in
	// the key/value store after reaching a terminal status.
	TaskKeepaliveAfterTerminal = 60 * time.Minute

	// WorkerIdleSleep is how long a worker sleeps between polls when
	// every priority queue is empty.
	WorkerIdleSleep = 1000 * time.Millisecond

	// MaxRRULEOccurrencesPerEvent caps calendar expansion per event.
	MaxRRULEOccurrencesPerEvent = 100
)

// EstimatedFlightDuration returns the conservative flight-time estimate
// for a path of the given distance, per spec.md §4.5: liftoff + cruise +
// landing.
func EstimatedFlightDuration(distanceMeters float64) time.Duration {
	cruise := time.Duration(distanceMeters/CruiseVelocityMetersPerSecond) * time.Second
	return LiftoffOverhead + cruise + LandingOverhead
}
