package expander

import "github.com/edwisdom/resident-scheduler/pkg/model"

// eligibility returns the normal eligible-PGY set and preferred-PGY
// subset for a team (spec.md §4.3). It does not encode the P-team
// fallback pool (any PGY-1/2, then PGY-3) — that widening is a
// solver/constraint-model concern, applied only once the primary pool
// has been tried and found empty (spec.md §4.2 item 1, §4.3).
func eligibility(team model.Team) (eligible, preferred []int) {
	switch team {
	case model.TeamR:
		return []int{3}, []int{3}
	case model.TeamG:
		return []int{2}, []int{2}
	case model.TeamI:
		return []int{1}, []int{1}
	case model.TeamE:
		return []int{1, 2, 3}, []int{1}
	case model.TeamB:
		return []int{1}, []int{1}
	case model.TeamP:
		// preferred stays nil deliberately: team P's preferred fill is
		// resolved by service, not PGY (see ShiftInstance.PreferredFor).
		return []int{1, 2}, nil
	default:
		return nil, nil
	}
}

// nominalDuration returns the duration (hours) used for display and for
// any PGY class not otherwise overridden by ShiftInstance.DurationForPGY.
func nominalDuration(team model.Team, token string) int {
	if team == model.TeamP {
		return 10
	}
	if team == model.TeamE {
		return 12 // nominal to the preferred PGY-1 class; actual duration resolved per-assignee
	}
	spec, ok := tokenTable[token]
	if !ok {
		return 0
	}
	switch team {
	case model.TeamI, model.TeamB:
		return spec.pgy1Duration
	default: // R, G
		return spec.pgy23Duration
	}
}
