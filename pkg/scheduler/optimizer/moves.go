package optimizer

import (
	"math/rand"

	"github.com/edwisdom/resident-scheduler/pkg/model"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/constraint"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/scorer"
)

// moveResult is what a proposed move reports back to Optimize: the
// handles whose score terms it touched, the objective contribution of
// those handles before the move was applied, and a revert closure that
// undoes the mutation already performed against ctx.
type moveResult struct {
	ok       bool
	affected []string
	before   float64
	revert   func()
	hash     uint64
}

// tryMove dispatches to one of the five neighborhood moves of spec.md
// §4.4. Each move mutates ctx directly and reports how to undo itself;
// Optimize decides whether to keep the mutation or call revert.
func tryMove(rng *rand.Rand, ctx *constraint.Context, w scorer.Weights, kind moveKind) moveResult {
	switch kind {
	case moveSwap:
		return trySwap(rng, ctx, w)
	case moveReassign:
		return tryReassign(rng, ctx, w)
	case moveFillOptional:
		return tryFillOptional(rng, ctx, w)
	case moveDropOptional:
		return tryDropOptional(rng, ctx, w)
	case moveNightRunReshape:
		return tryNightRunReshape(rng, ctx, w)
	default:
		return moveResult{}
	}
}

func filledAssignments(ctx *constraint.Context) []*model.Assignment {
	var out []*model.Assignment
	for _, a := range ctx.Assignments {
		if a.Filled() {
			out = append(out, a)
		}
	}
	return out
}

// trySwap exchanges the residents of two filled shift-instances,
// legal iff both resulting assignments are legal (spec.md §4.4: Swap).
func trySwap(rng *rand.Rand, ctx *constraint.Context, w scorer.Weights) moveResult {
	filled := filledAssignments(ctx)
	if len(filled) < 2 {
		return moveResult{}
	}
	a1 := filled[rng.Intn(len(filled))]
	a2 := filled[rng.Intn(len(filled))]
	if a1.ShiftKey == a2.ShiftKey || a1.ResidentHandle == a2.ResidentHandle {
		return moveResult{}
	}

	s1, s2 := ctx.Shift(a1.ShiftKey), ctx.Shift(a2.ShiftKey)
	if s1.IsNight() || s2.IsNight() {
		return moveResult{} // nights move only as whole runs (tryNightRunReshape)
	}
	r1, r2 := a1.ResidentHandle, a2.ResidentHandle
	affected := []string{r1, r2}
	before := scorer.ResidentDelta(ctx, affected, w)

	ctx.Unassign(s1.Key())
	ctx.Unassign(s2.Key())

	rObj1, rObj2 := ctx.Resident(r1), ctx.Resident(r2)
	legal1, _ := constraint.Legal(ctx, rObj2, s1, false)
	legal2, _ := constraint.Legal(ctx, rObj1, s2, false)
	if !legal1 || !legal2 {
		ctx.Assign(s1.Key(), r1)
		ctx.Assign(s2.Key(), r2)
		return moveResult{}
	}

	ctx.Assign(s1.Key(), r2)
	ctx.Assign(s2.Key(), r1)

	revert := func() {
		ctx.Unassign(s1.Key())
		ctx.Unassign(s2.Key())
		ctx.Assign(s1.Key(), r1)
		ctx.Assign(s2.Key(), r2)
	}
	return moveResult{ok: true, affected: affected, before: before, revert: revert, hash: hashKey("swap", s1.Key(), s2.Key())}
}

// tryReassign changes one shift-instance's resident to another
// eligible-and-legal resident (spec.md §4.4: Reassign).
func tryReassign(rng *rand.Rand, ctx *constraint.Context, w scorer.Weights) moveResult {
	filled := filledAssignments(ctx)
	if len(filled) == 0 {
		return moveResult{}
	}
	a := filled[rng.Intn(len(filled))]
	shift := ctx.Shift(a.ShiftKey)
	if shift.IsNight() {
		return moveResult{} // nights move only as whole runs (tryNightRunReshape)
	}
	oldHandle := a.ResidentHandle

	candidates := shuffledResidents(rng, ctx)
	for _, candidate := range candidates {
		if candidate.Handle == oldHandle {
			continue
		}
		affected := []string{oldHandle, candidate.Handle}
		before := scorer.ResidentDelta(ctx, affected, w)

		ctx.Unassign(shift.Key())
		legal, _ := constraint.Legal(ctx, candidate, shift, false)
		if !legal {
			ctx.Assign(shift.Key(), oldHandle)
			continue
		}

		ctx.Assign(shift.Key(), candidate.Handle)
		revert := func() {
			ctx.Unassign(shift.Key())
			ctx.Assign(shift.Key(), oldHandle)
		}
		return moveResult{ok: true, affected: affected, before: before, revert: revert, hash: hashKey("reassign", shift.Key(), candidate.Handle)}
	}
	return moveResult{}
}

// tryFillOptional assigns an unfilled optional shift to a legal
// resident below target (spec.md §4.4: Fill-optional).
func tryFillOptional(rng *rand.Rand, ctx *constraint.Context, w scorer.Weights) moveResult {
	var unfilled []*model.ShiftInstance
	for _, s := range ctx.Shifts {
		if s.Required {
			continue
		}
		if a, ok := ctx.Assignments[s.Key()]; !ok || !a.Filled() {
			unfilled = append(unfilled, s)
		}
	}
	if len(unfilled) == 0 {
		return moveResult{}
	}
	shift := unfilled[rng.Intn(len(unfilled))]

	for _, candidate := range shuffledResidents(rng, ctx) {
		if candidate.EffectiveTarget()-hoursForResident(ctx, candidate) <= 0 {
			continue
		}
		legal, _ := constraint.Legal(ctx, candidate, shift, false)
		if !legal {
			continue
		}
		affected := []string{candidate.Handle}
		before := scorer.ResidentDelta(ctx, affected, w)
		ctx.Assign(shift.Key(), candidate.Handle)
		revert := func() { ctx.Unassign(shift.Key()) }
		return moveResult{ok: true, affected: affected, before: before, revert: revert, hash: hashKey("fill", shift.Key(), candidate.Handle)}
	}
	return moveResult{}
}

// tryDropOptional unassigns an optional shift pushing its resident
// above target (spec.md §4.4: Drop-optional).
func tryDropOptional(rng *rand.Rand, ctx *constraint.Context, w scorer.Weights) moveResult {
	var candidates []*model.Assignment
	for _, s := range ctx.Shifts {
		if s.Required {
			continue
		}
		a, ok := ctx.Assignments[s.Key()]
		if !ok || !a.Filled() {
			continue
		}
		r := ctx.Resident(a.ResidentHandle)
		if r.EffectiveTarget()-hoursForResident(ctx, r) < 0 {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return moveResult{}
	}
	a := candidates[rng.Intn(len(candidates))]
	handle := a.ResidentHandle
	affected := []string{handle}
	before := scorer.ResidentDelta(ctx, affected, w)

	ctx.Unassign(a.ShiftKey)
	revert := func() { ctx.Assign(a.ShiftKey, handle) }
	return moveResult{ok: true, affected: affected, before: before, revert: revert, hash: hashKey("drop", a.ShiftKey)}
}

// tryNightRunReshape replaces an entire night-run's resident with a
// different eligible resident, preserving length and hospital
// alternation (spec.md §4.4: Night-run reshape).
func tryNightRunReshape(rng *rand.Rand, ctx *constraint.Context, w scorer.Weights) moveResult {
	var complete []*model.NightRun
	for _, run := range ctx.NightRuns {
		if run.Complete() {
			complete = append(complete, run)
		}
	}
	if len(complete) == 0 {
		return moveResult{}
	}
	run := complete[rng.Intn(len(complete))]
	oldHandle := run.ResidentHandle

	for _, candidate := range shuffledResidents(rng, ctx) {
		if candidate.Handle == oldHandle {
			continue
		}
		affected := []string{oldHandle, candidate.Handle}
		before := scorer.ResidentDelta(ctx, affected, w)

		for _, key := range run.ShiftKeys {
			ctx.Unassign(key)
		}

		allLegal := true
		for _, key := range run.ShiftKeys {
			shift := ctx.Shift(key)
			legal, _ := constraint.Legal(ctx, candidate, shift, false)
			if !legal {
				allLegal = false
				break
			}
			ctx.Assign(key, candidate.Handle)
		}

		if !allLegal {
			for _, key := range run.ShiftKeys {
				ctx.Unassign(key)
			}
			for _, key := range run.ShiftKeys {
				ctx.Assign(key, oldHandle)
			}
			continue
		}

		delete(ctx.NightRuns, oldHandle)
		run.ResidentHandle = candidate.Handle
		ctx.NightRuns[candidate.Handle] = run

		revert := func() {
			for _, key := range run.ShiftKeys {
				ctx.Unassign(key)
			}
			for _, key := range run.ShiftKeys {
				ctx.Assign(key, oldHandle)
			}
			delete(ctx.NightRuns, candidate.Handle)
			run.ResidentHandle = oldHandle
			ctx.NightRuns[oldHandle] = run
		}
		return moveResult{ok: true, affected: affected, before: before, revert: revert, hash: hashKey("reshape", run.StartDate, candidate.Handle)}
	}
	return moveResult{}
}

func shuffledResidents(rng *rand.Rand, ctx *constraint.Context) []*model.Resident {
	out := make([]*model.Resident, len(ctx.Residents))
	copy(out, ctx.Residents)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func hoursForResident(ctx *constraint.Context, r *model.Resident) int {
	total := 0
	for _, a := range ctx.ResidentAssignments(r.Handle) {
		s := ctx.Shift(a.ShiftKey)
		total += s.DurationForPGY(r.PGYYear)
	}
	return total
}
