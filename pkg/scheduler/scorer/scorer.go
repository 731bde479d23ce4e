// Package scorer implements the weighted objective of spec.md §4.5:
// the penalty function Phase B's local search drives down.
package scorer

import (
	"time"

	"github.com/edwisdom/resident-scheduler/pkg/model"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/constraint"
)

// Weights are the objective's configuration constants (spec.md §4.5,
// §9 Open Question: "the exact weights ... left to the operator").
// HourDeviation weighs each squared hour of miss at 1, so a 10-hour
// miss costs 100: more than any single one of the other penalties,
// though enough of them together (nine request violations at 12 each,
// for example) cost more.
type Weights struct {
	HourDeviation      float64
	UnfilledOptional   float64
	PreferenceViolation float64
	RequestViolation   float64
	CircadianStep      float64
	NightAdjacencyBonus float64
}

func DefaultWeights() Weights {
	return Weights{
		HourDeviation:       1.0,
		UnfilledOptional:    4.0,
		PreferenceViolation: 8.0,
		RequestViolation:    12.0,
		CircadianStep:       3.0,
		NightAdjacencyBonus: -2.0,
	}
}

// circadianRank implements the ladder from spec.md §4.5 item 5:
// morning < afternoon < night.
func circadianRank(token string) int {
	switch token {
	case "7", "9", "11":
		return 0
	case "1", "2", "4", "dw", "11w":
		return 1
	case "n":
		return 2
	default:
		return 1
	}
}

// Score computes the full objective over ctx's current assignment.
func Score(ctx *constraint.Context, w Weights) float64 {
	total := 0.0
	total += hourDeviationTerm(ctx, w)
	total += unfilledOptionalTerm(ctx, w)
	total += preferenceTerm(ctx, w)
	total += requestTerm(ctx, w)
	total += circadianTerm(ctx, w)
	total += nightAdjacencyTerm(ctx, w)
	return total
}

// ResidentDelta recomputes the resident-scoped terms (hour deviation,
// circadian, night-adjacency) for exactly the residents named, and the
// assignment-scoped terms (preference, request) only over their
// assignments. Local search uses this instead of a full Score after
// moves that touch a small, known set of residents (spec.md §9:
// "Local search uses deltas computed from the changed residents'
// states only").
func ResidentDelta(ctx *constraint.Context, handles []string, w Weights) float64 {
	total := 0.0
	for _, handle := range handles {
		r := ctx.Resident(handle)
		if r == nil || !r.Schedulable() {
			continue
		}
		total += residentHourDeviation(ctx, r, w)
		total += residentCircadian(ctx, r, w)
		total += residentNightAdjacency(ctx, r, w)
		total += residentPreferenceAndRequest(ctx, r, w)
	}
	return total
}

func residentHourDeviation(ctx *constraint.Context, r *model.Resident, w Weights) float64 {
	actual := 0
	for _, a := range ctx.ResidentAssignments(r.Handle) {
		s := ctx.Shift(a.ShiftKey)
		actual += s.DurationForPGY(r.PGYYear)
	}
	dev := float64(r.EffectiveTarget() - actual)
	return w.HourDeviation * dev * dev
}

func residentPreferenceAndRequest(ctx *constraint.Context, r *model.Resident, w Weights) float64 {
	total := 0.0
	for _, a := range ctx.ResidentAssignments(r.Handle) {
		s := ctx.Shift(a.ShiftKey)
		if s.Team == model.TeamE || s.Team == model.TeamB || s.Team == model.TeamP {
			if !s.PreferredFor(r.PGYYear, r.Service) {
				total += w.PreferenceViolation
			}
		}
		if r.Requested(a.Date) {
			total += w.RequestViolation
		}
	}
	return total
}

func residentCircadian(ctx *constraint.Context, r *model.Resident, w Weights) float64 {
	total := 0.0
	assignments := ctx.ResidentAssignments(r.Handle)
	for i := 0; i+1 < len(assignments); i++ {
		s1 := ctx.Shift(assignments[i].ShiftKey)
		s2 := ctx.Shift(assignments[i+1].ShiftKey)

		gapHours := float64(s2.AbsStart-s1.AbsEndForPGY(r.PGYYear)) / 60.0
		if gapHours >= 24 || s2.AbsStart-s1.AbsStart > 72*60 {
			continue
		}

		r1, r2 := circadianRank(s1.Token), circadianRank(s2.Token)
		step := r2 - r1
		switch {
		case step >= 1:
		case step == 0:
			total += w.CircadianStep
		default:
			total += w.CircadianStep * float64(-step)
		}
	}
	return total
}

func residentNightAdjacency(ctx *constraint.Context, r *model.Resident, w Weights) float64 {
	total := 0.0
	assignments := ctx.ResidentAssignments(r.Handle)
	for i, a := range assignments {
		s := ctx.Shift(a.ShiftKey)
		if !s.IsNight() {
			continue
		}
		isRunStart := i == 0 || !ctx.Shift(assignments[i-1].ShiftKey).IsNight()
		isRunEnd := i == len(assignments)-1 || !ctx.Shift(assignments[i+1].ShiftKey).IsNight()

		if isRunStart && dayBeforeFree(ctx, r, s) {
			total += w.NightAdjacencyBonus
		}
		if isRunEnd && dayAfterFree(ctx, r, s) {
			total += w.NightAdjacencyBonus
		}
	}
	return total
}

func hourDeviationTerm(ctx *constraint.Context, w Weights) float64 {
	total := 0.0
	for _, r := range ctx.Residents {
		if !r.Schedulable() {
			continue
		}
		actual := 0
		for _, a := range ctx.ResidentAssignments(r.Handle) {
			s := ctx.Shift(a.ShiftKey)
			actual += s.DurationForPGY(r.PGYYear)
		}
		dev := float64(r.EffectiveTarget() - actual)
		total += w.HourDeviation * dev * dev
	}
	return total
}

func unfilledOptionalTerm(ctx *constraint.Context, w Weights) float64 {
	n := 0
	for _, s := range ctx.Shifts {
		if s.Required {
			continue
		}
		if a, ok := ctx.Assignments[s.Key()]; !ok || !a.Filled() {
			n++
		}
	}
	return w.UnfilledOptional * float64(n)
}

// preferenceTerm implements spec.md §4.5 item 3: a penalty when a
// non-preferred PGY class fills E, B, or P.
func preferenceTerm(ctx *constraint.Context, w Weights) float64 {
	n := 0
	for _, a := range ctx.Assignments {
		if !a.Filled() {
			continue
		}
		s := ctx.Shift(a.ShiftKey)
		if s.Team != model.TeamE && s.Team != model.TeamB && s.Team != model.TeamP {
			continue
		}
		r := ctx.Resident(a.ResidentHandle)
		if !s.PreferredFor(r.PGYYear, r.Service) {
			n++
		}
	}
	return w.PreferenceViolation * float64(n)
}

func requestTerm(ctx *constraint.Context, w Weights) float64 {
	n := 0
	for _, a := range ctx.Assignments {
		if !a.Filled() {
			continue
		}
		r := ctx.Resident(a.ResidentHandle)
		if r.Requested(a.Date) {
			n++
		}
	}
	return w.RequestViolation * float64(n)
}

// circadianTerm implements spec.md §4.5 item 5 over every pair of
// assignments to the same resident within a 72-hour sliding window.
func circadianTerm(ctx *constraint.Context, w Weights) float64 {
	total := 0.0
	for _, r := range ctx.Residents {
		assignments := ctx.ResidentAssignments(r.Handle)
		for i := 0; i+1 < len(assignments); i++ {
			s1 := ctx.Shift(assignments[i].ShiftKey)
			s2 := ctx.Shift(assignments[i+1].ShiftKey)

			gapHours := float64(s2.AbsStart-s1.AbsEndForPGY(r.PGYYear)) / 60.0
			if gapHours >= 24 {
				continue // a day off between shifts removes the penalty
			}
			if s2.AbsStart-s1.AbsStart > 72*60 {
				continue // outside the 72h sliding window
			}

			r1, r2 := circadianRank(s1.Token), circadianRank(s2.Token)
			step := r2 - r1
			switch {
			case step >= 1:
				// forward step costs nothing
			case step == 0:
				total += w.CircadianStep * 1
			default:
				total += w.CircadianStep * float64(-step) // backward: 1-2 per spec.md
			}
		}
	}
	return total
}

// nightAdjacencyTerm implements spec.md §4.5 item 6: a bonus (negative
// penalty) for a day off immediately before and after a night-run.
func nightAdjacencyTerm(ctx *constraint.Context, w Weights) float64 {
	total := 0.0
	for _, r := range ctx.Residents {
		assignments := ctx.ResidentAssignments(r.Handle)
		for i, a := range assignments {
			s := ctx.Shift(a.ShiftKey)
			if !s.IsNight() {
				continue
			}
			isRunStart := i == 0 || !ctx.Shift(assignments[i-1].ShiftKey).IsNight()
			isRunEnd := i == len(assignments)-1 || !ctx.Shift(assignments[i+1].ShiftKey).IsNight()

			if isRunStart && dayBeforeFree(ctx, r, s) {
				total += w.NightAdjacencyBonus
			}
			if isRunEnd && dayAfterFree(ctx, r, s) {
				total += w.NightAdjacencyBonus
			}
		}
	}
	return total
}

func dayBeforeFree(ctx *constraint.Context, r *model.Resident, s *model.ShiftInstance) bool {
	prevDate := shiftDate(s).AddDate(0, 0, -1).Format("2006-01-02")
	return !hasAssignmentOn(ctx, r.Handle, prevDate)
}

func dayAfterFree(ctx *constraint.Context, r *model.Resident, s *model.ShiftInstance) bool {
	nextDate := shiftDate(s).AddDate(0, 0, 1).Format("2006-01-02")
	return !hasAssignmentOn(ctx, r.Handle, nextDate)
}

func hasAssignmentOn(ctx *constraint.Context, handle, date string) bool {
	for _, a := range ctx.DateAssignments(date) {
		if a.ResidentHandle == handle {
			return true
		}
	}
	return false
}

func shiftDate(s *model.ShiftInstance) time.Time {
	t, _ := time.Parse("2006-01-02", s.Date)
	return t
}
