// Package solver implements the two-phase search of spec.md §4.4: a
// randomized constructive heuristic (Phase A, this package) and a
// local-search improvement pass (Phase B, pkg/scheduler/optimizer).
package solver

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/edwisdom/resident-scheduler/pkg/errors"
	"github.com/edwisdom/resident-scheduler/pkg/logger"
	"github.com/edwisdom/resident-scheduler/pkg/model"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/constraint"
)

// Options configures Phase A.
type Options struct {
	MaxBacktrackPerDay int // bounded per-day backtracking budget (spec.md §4.4)
}

func DefaultOptions() Options {
	return Options{MaxBacktrackPerDay: 25}
}

// Result is Phase A's output besides the assignment itself, which Solve
// writes into ctx: the committed night-runs.
type Result struct {
	NightRuns []*model.NightRun
}

// Solve runs Phase A over ctx, mutating ctx.Assignments in place and
// returning the committed night-runs. rng is the single seeded
// generator threaded through every randomized decision (spec.md §9).
func Solve(rng *rand.Rand, ctx *constraint.Context, opts Options) (*Result, error) {
	log := logger.NewSchedulerLogger()
	dates := sortedDates(ctx)
	byDate := shiftsByDate(ctx, dates)

	var runs []*model.NightRun
	planner := newNightRunPlanner(nightTeamsIn(ctx.Shifts))

	for _, date := range dates {
		shifts := byDate[date]

		dayRuns, err := planner.planNightRuns(rng, ctx, date, shifts)
		if err != nil {
			return nil, err
		}
		runs = append(runs, dayRuns...)

		if err := fillRequiredDayShifts(rng, ctx, date, shifts, opts); err != nil {
			return nil, err
		}
	}

	log.PhaseAComplete(len(ctx.Assignments), countUnfilledOptional(ctx), 0)
	return &Result{NightRuns: runs}, nil
}

// nightTeamsIn returns the distinct teams that carry at least one
// night shift anywhere in shifts, sorted for deterministic planning
// order. Derived from the actual template in force rather than
// hardcoded, so a --template override that moves night coverage onto a
// different team (spec.md §6) still gets its night-runs planned.
func nightTeamsIn(shifts []*model.ShiftInstance) []model.Team {
	seen := make(map[model.Team]bool)
	var teams []model.Team
	for _, s := range shifts {
		if s.IsNight() && !seen[s.Team] {
			seen[s.Team] = true
			teams = append(teams, s.Team)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i] < teams[j] })
	return teams
}

func sortedDates(ctx *constraint.Context) []string {
	seen := make(map[string]bool)
	var dates []string
	for _, s := range ctx.Shifts {
		if !seen[s.Date] {
			seen[s.Date] = true
			dates = append(dates, s.Date)
		}
	}
	sort.Strings(dates)
	return dates
}

func shiftsByDate(ctx *constraint.Context, dates []string) map[string][]*model.ShiftInstance {
	out := make(map[string][]*model.ShiftInstance, len(dates))
	for _, s := range ctx.Shifts {
		out[s.Date] = append(out[s.Date], s)
	}
	return out
}

// fillRequiredDayShifts implements Phase A step (ii): required,
// non-night shifts filled team-by-team in randomized order, weighted
// by hours deficit (spec.md §4.4). When some shuffle order and random
// draw leaves a shift with no legal candidate, the whole day's
// required fills made so far are undone and retried with a fresh
// shuffle, up to opts.MaxBacktrackPerDay attempts, before the day is
// declared infeasible (spec.md §4.4's bounded per-day backtracking).
func fillRequiredDayShifts(rng *rand.Rand, ctx *constraint.Context, date string, shifts []*model.ShiftInstance, opts Options) error {
	var required []*model.ShiftInstance
	for _, s := range shifts {
		if s.IsNight() || !s.Required {
			continue
		}
		if _, already := ctx.Assignments[s.Key()]; already {
			continue
		}
		required = append(required, s)
	}

	maxAttempts := opts.MaxBacktrackPerDay
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		order := make([]*model.ShiftInstance, len(required))
		copy(order, required)
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		committed, err := fillAll(rng, ctx, order)
		if err == nil {
			return nil
		}
		lastErr = err
		for _, key := range committed {
			ctx.Unassign(key)
		}
	}
	return lastErr
}

// fillAll fills shifts in order, stopping at the first one with no
// legal candidate. It returns the keys it committed so the caller can
// undo them on failure.
func fillAll(rng *rand.Rand, ctx *constraint.Context, shifts []*model.ShiftInstance) ([]string, error) {
	committed := make([]string, 0, len(shifts))
	for _, shift := range shifts {
		if err := fillOneShift(rng, ctx, shift); err != nil {
			return committed, err
		}
		committed = append(committed, shift.Key())
	}
	return committed, nil
}

// fillOneShift samples without replacement from the legal candidate
// pool, weighted by hours deficit, declaring the shift infeasible if
// no resident is legal under the current (possibly mid-backtrack)
// assignment state.
func fillOneShift(rng *rand.Rand, ctx *constraint.Context, shift *model.ShiftInstance) error {
	candidates, reasons := legalCandidates(ctx, shift, false)
	if len(candidates) == 0 && shift.Team == model.TeamP {
		candidates, reasons = legalCandidates(ctx, shift, true)
	}
	if len(candidates) == 0 {
		var denials []string
		for handle, reason := range reasons {
			denials = append(denials, fmt.Sprintf("%s: %s", handle, reason))
		}
		sort.Strings(denials)
		return errors.Infeasible(shift.Key(), shift.Date, denials)
	}

	chosen := weightedChoice(rng, ctx, candidates, shift)
	ctx.Assign(shift.Key(), chosen.Handle)
	return nil
}

func legalCandidates(ctx *constraint.Context, shift *model.ShiftInstance, allowFallback bool) ([]*model.Resident, map[string]string) {
	var ok []*model.Resident
	denials := make(map[string]string)
	for _, r := range ctx.Residents {
		legal, reason := constraint.Legal(ctx, r, shift, allowFallback)
		if legal {
			ok = append(ok, r)
		} else {
			denials[r.Handle] = reason
		}
	}
	return ok, denials
}

// weightedChoice picks among candidates proportionally to hours
// deficit (target - running hours, clamped at zero), with a small
// preference/request bonus (spec.md §4.4 step ii).
func weightedChoice(rng *rand.Rand, ctx *constraint.Context, candidates []*model.Resident, shift *model.ShiftInstance) *model.Resident {
	weights := make([]float64, len(candidates))
	var total float64
	for i, r := range candidates {
		weights[i] = candidateWeight(ctx, r, shift)
		total += weights[i]
	}
	if total <= 0 {
		return candidates[rng.Intn(len(candidates))]
	}

	pick := rng.Float64() * total
	var cum float64
	for i, w := range weights {
		cum += w
		if pick <= cum {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

func candidateWeight(ctx *constraint.Context, r *model.Resident, shift *model.ShiftInstance) float64 {
	running := hoursRunning(ctx, r)
	deficit := float64(r.EffectiveTarget() - running)
	if deficit < 1 {
		deficit = 1 // every candidate keeps some nonzero weight
	}

	weight := deficit
	if shift.PreferredFor(r.PGYYear, r.Service) {
		weight *= 1.1
	}
	if !r.Requested(shift.Date) {
		weight *= 1.05
	}
	return weight
}

func hoursRunning(ctx *constraint.Context, r *model.Resident) int {
	total := 0
	for _, a := range ctx.ResidentAssignments(r.Handle) {
		s := ctx.Shift(a.ShiftKey)
		total += s.DurationForPGY(r.PGYYear)
	}
	return total
}

func countUnfilledOptional(ctx *constraint.Context) int {
	n := 0
	for _, s := range ctx.Shifts {
		if s.Required {
			continue
		}
		if a, ok := ctx.Assignments[s.Key()]; !ok || !a.Filled() {
			n++
		}
	}
	return n
}
