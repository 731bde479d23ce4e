package model

import "github.com/google/uuid"

// Service is a resident's rotation status for the scheduling block.
type Service string

const (
	ServiceED          Service = "ED"
	ServicePeds        Service = "Peds"
	ServiceOffService  Service = "Off-Service"
	ServiceVacation    Service = "Vacation"
)

// Unschedulable reports whether residents in this service may ever be
// assigned a shift (spec.md §3, Resident invariant).
func (s Service) Unschedulable() bool {
	return s == ServiceOffService || s == ServiceVacation
}

// Resident is one resident physician, identified by an opaque handle.
// Static attributes only; running totals (assigned hours, nights
// worked, consecutive days, last-shift end) are derived from the
// assignment index in constraint.Context rather than stored here — see
// spec.md §9 Design Notes on cyclic lookups.
type Resident struct {
	// ID is an internal surrogate key used for index lookups; the
	// resident-facing identity remains Handle.
	ID     uuid.UUID
	Handle string

	PGYYear int // 1, 2, or 3
	Service Service

	HourTarget     int // ED-block target
	PedsHourTarget int // target while on a Peds block; 0 if never on Peds

	Chief bool // PGY-3 only

	// Requests holds the set of requested-off dates, YYYY-MM-DD.
	Requests map[string]bool
}

// EffectiveTarget returns the hour target that applies given the
// resident's current service (spec.md §4.5 item 1).
func (r *Resident) EffectiveTarget() int {
	if r.Service == ServicePeds && r.PedsHourTarget > 0 {
		return r.PedsHourTarget
	}
	return r.HourTarget
}

// Requested reports whether the resident asked for the given date off.
func (r *Resident) Requested(date string) bool {
	return r.Requests[date]
}

// Schedulable reports whether this resident may ever receive an
// assignment (spec.md §3 Resident invariant).
func (r *Resident) Schedulable() bool {
	return !r.Service.Unschedulable()
}
