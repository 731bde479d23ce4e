// Package model defines the core data types of the resident scheduler:
// shift-instances, residents, assignments and night-runs.
package model

import "github.com/google/uuid"

// Team identifies one of the six rotation teams a shift belongs to.
type Team byte

const (
	TeamR Team = 'R' // senior resident team, PGY-3 only
	TeamG Team = 'G' // PGY-2 team
	TeamI Team = 'I' // intern team, PGY-1 only
	TeamE Team = 'E' // evaluation/fast-track shift
	TeamB Team = 'B' // hospital-L-only intern backup slot
	TeamP Team = 'P' // pediatrics
)

// Hospital identifies one of the two hospitals a shift runs at.
type Hospital byte

const (
	HospitalL Hospital = 'L'
	HospitalW Hospital = 'W'
)

// Start-token decode table (spec.md §4.1). Duration is in hours; 0 means
// the token is not defined for that PGY class.
const (
	durNone = 0
)

// ShiftInstance is a single dated, keyed shift: one row of the expanded
// schedule. It is uniquely identified by (Date, Code).
type ShiftInstance struct {
	// ID is an internal surrogate key used for index lookups; the
	// durable identity is (Date, Code) per Key().
	ID       uuid.UUID
	Date     string // YYYY-MM-DD
	Code     string // e.g. "LR7", "LIdw", "LE11", "LB11w" — verbatim template notation
	Hospital Hospital
	Team     Team
	Token    string // decoded start-token, e.g. "7", "n", "dw", "11w"

	StartMinuteOfDay int // local wall-clock minutes from midnight
	NominalDuration   int // hours; the duration used for display and for PGY classes where only one is legal

	Required     bool
	EligiblePGY  []int // sorted ascending
	PreferredPGY []int // sorted ascending; subset of EligiblePGY treated as non-penalized

	// AbsStart is the shift's start instant in minutes from the
	// scheduling horizon's start (00:00 of the horizon's first day).
	// AbsEnd is derived per-assignee via DurationForPGY, since the E
	// team's actual duration depends on the assignee's PGY year.
	AbsStart int64
}

// Key returns the unique identifier used to index this shift instance.
func (s *ShiftInstance) Key() string {
	return s.Date + "|" + s.Code
}

// IsNight reports whether this is a night-shift (start-token "n").
func (s *ShiftInstance) IsNight() bool {
	return s.Token == "n"
}

// EligibleFor reports whether the given PGY year may normally be
// assigned to this shift, ignoring the P-team fallback rule (spec.md
// §4.2 item 1's parenthetical and §4.3).
func (s *ShiftInstance) EligibleFor(pgy int) bool {
	for _, p := range s.EligiblePGY {
		if p == pgy {
			return true
		}
	}
	return false
}

// PreferredFor reports whether the given PGY year and service is the
// preferred fill for this shift (non-preferred fills are legal but
// scored, spec.md §4.5 item 3). Team P has no PGY preference of its
// own — PGY alone can't tell a true Peds-block resident from the
// PGY-1/2/3 ED-service fallback pool that constraint.Legal admits only
// once the Peds pool is exhausted (spec.md §4.2 item 1, §4.3) — so the
// preferred fill there is whoever is actually on the Peds service,
// regardless of PGY year.
func (s *ShiftInstance) PreferredFor(pgy int, service Service) bool {
	if s.Team == TeamP {
		return service == ServicePeds
	}
	for _, p := range s.PreferredPGY {
		if p == pgy {
			return true
		}
	}
	return len(s.PreferredPGY) == 0
}

// DurationForPGY returns the duration in hours this shift would run for
// an assignee of the given PGY year, implementing the Pediatrics and
// Eval overrides from spec.md §4.1.
//
//	Peds (team P): always 10h.
//	Eval (team E): PGY-2/3 = 10h, PGY-1 = 12h (normal intern length).
//	Everything else: the nominal duration decoded from the start-token,
//	which is already PGY-specific for any team where more than one PGY
//	class is eligible.
func (s *ShiftInstance) DurationForPGY(pgy int) int {
	switch s.Team {
	case TeamP:
		return 10
	case TeamE:
		if pgy == 1 {
			return 12
		}
		return 10
	default:
		return s.NominalDuration
	}
}

// AbsEndForPGY returns the shift's end instant (minutes from horizon
// start) for an assignee of the given PGY year.
func (s *ShiftInstance) AbsEndForPGY(pgy int) int64 {
	return s.AbsStart + int64(s.DurationForPGY(pgy))*60
}
