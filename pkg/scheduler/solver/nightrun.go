package solver

import (
	"math/rand"

	"github.com/edwisdom/resident-scheduler/pkg/errors"
	"github.com/edwisdom/resident-scheduler/pkg/model"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/constraint"
)

// nightRunPlanner tracks, per team, the runs currently mid-placement
// so subsequent days know which hospital slot is already spoken for
// (spec.md §4.4 step i: "night commitments are persistent across
// subsequent day planning"). It is owned by a single Solve call; two
// concurrent solves (pkg/scheduler/parallel) each get their own.
type nightRunPlanner struct {
	teams  []model.Team
	active map[model.Team][]*model.NightRun
}

// newNightRunPlanner plans runs only for the given teams — the teams
// that actually carry a night shift in the template in force, not a
// fixed default (spec.md §6 template overrides).
func newNightRunPlanner(teams []model.Team) *nightRunPlanner {
	return &nightRunPlanner{teams: teams, active: make(map[model.Team][]*model.NightRun)}
}

// planNightRuns implements spec.md §4.4 step (i) for one date: every
// night shift not already covered by a persistent commitment gets a
// newly-committed run starting today.
func (p *nightRunPlanner) planNightRuns(rng *rand.Rand, ctx *constraint.Context, date string, shifts []*model.ShiftInstance) ([]*model.NightRun, error) {
	var newRuns []*model.NightRun

	for _, team := range p.teams {
		nightShifts := nightShiftsForTeam(shifts, team)
		for _, shift := range nightShifts {
			placed, err := p.placeFromActiveRun(ctx, team, shift)
			if err != nil {
				return nil, err
			}
			if placed {
				continue
			}

			run, err := p.commitNewRun(rng, ctx, team, shift, date)
			if err != nil {
				return nil, err
			}
			if run != nil {
				newRuns = append(newRuns, run)
				p.active[team] = append(p.active[team], run)
			}
		}
	}

	p.pruneCompletedRuns()
	return newRuns, nil
}

func nightShiftsForTeam(shifts []*model.ShiftInstance, team model.Team) []*model.ShiftInstance {
	var out []*model.ShiftInstance
	for _, s := range shifts {
		if s.IsNight() && s.Team == team {
			out = append(out, s)
		}
	}
	return out
}

// placeFromActiveRun fills shift from a run already in progress whose
// next required hospital matches, if one exists. If the run's
// resident can no longer legally work this night, the run is ended
// early when it has already reached the minimum length of 3, and
// reported infeasible otherwise (spec.md §3 night-run invariant).
func (p *nightRunPlanner) placeFromActiveRun(ctx *constraint.Context, team model.Team, shift *model.ShiftInstance) (bool, error) {
	for _, run := range p.active[team] {
		idx := nextOpenIndex(run)
		if idx < 0 || idx >= len(run.Hospitals) {
			continue
		}
		if run.Hospitals[idx] != shift.Hospital {
			continue
		}

		resident := ctx.Resident(run.ResidentHandle)
		legal, reason := constraint.Legal(ctx, resident, shift, false)
		if !legal {
			if idx >= 3 {
				truncateRun(run, idx)
				continue
			}
			return false, errors.Infeasible(shift.Key(), shift.Date,
				[]string{run.ResidentHandle + " can no longer continue its committed night-run: " + reason})
		}

		ctx.Assign(shift.Key(), run.ResidentHandle)
		run.ShiftKeys[idx] = shift.Key()
		return true, nil
	}
	return false, nil
}

// truncateRun shortens an in-progress run to the nights already
// placed, which must number at least 3 (spec.md §3 night-run
// invariant: length ∈ {3,4}).
func truncateRun(run *model.NightRun, placedCount int) {
	run.Length = placedCount
	run.Hospitals = run.Hospitals[:placedCount]
	run.ShiftKeys = run.ShiftKeys[:placedCount]
}

func nextOpenIndex(run *model.NightRun) int {
	for i, key := range run.ShiftKeys {
		if key == "" {
			return i
		}
	}
	return -1
}

func (p *nightRunPlanner) pruneCompletedRuns() {
	for team, runs := range p.active {
		var kept []*model.NightRun
		for _, r := range runs {
			if !r.Complete() {
				kept = append(kept, r)
			}
		}
		p.active[team] = kept
	}
}

// commitNewRun picks the legal candidate with the largest hours deficit
// (a seeded shuffle decides ties) and commits them to a 3- or 4-night
// alternating-hospital run starting at shift's
// hospital today, verifying legality of the first night before
// committing (spec.md §4.4 step i); later nights are verified as
// planNightRuns reaches each subsequent date, since those
// shift-instances don't resolve into concrete legality checks until
// their own day is processed. It tries length 4 first, then 3.
func (p *nightRunPlanner) commitNewRun(rng *rand.Rand, ctx *constraint.Context, team model.Team, shift *model.ShiftInstance, date string) (*model.NightRun, error) {
	candidates, denials := legalCandidates(ctx, shift, false)
	if len(candidates) == 0 {
		var list []string
		for h, reason := range denials {
			list = append(list, h+": "+reason)
		}
		return nil, errors.Infeasible(shift.Key(), date, list)
	}

	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	sortByDeficitDesc(ctx, candidates)

	for _, length := range []int{4, 3} {
		for _, resident := range candidates {
			legal, _ := constraint.Legal(ctx, resident, shift, false)
			if !legal {
				continue
			}
			hospitals := alternatingHospitals(shift.Hospital, length)
			run := &model.NightRun{
				ResidentHandle: resident.Handle,
				Team:           team,
				StartDate:      date,
				Length:         length,
				Hospitals:      hospitals,
				ShiftKeys:      make([]string, length),
			}
			run.ShiftKeys[0] = shift.Key()
			ctx.Assign(shift.Key(), resident.Handle)
			return run, nil
		}
	}

	return nil, errors.Infeasible(shift.Key(), date, []string{"no resident can sustain a legal night-run from this date"})
}

func alternatingHospitals(start model.Hospital, length int) []model.Hospital {
	other := model.HospitalW
	if start == model.HospitalW {
		other = model.HospitalL
	}
	out := make([]model.Hospital, length)
	for i := 0; i < length; i++ {
		if i%2 == 0 {
			out[i] = start
		} else {
			out[i] = other
		}
	}
	return out
}

func sortByDeficitDesc(ctx *constraint.Context, residents []*model.Resident) {
	for i := 1; i < len(residents); i++ {
		for j := i; j > 0; j-- {
			if candidateDeficit(ctx, residents[j]) <= candidateDeficit(ctx, residents[j-1]) {
				break
			}
			residents[j], residents[j-1] = residents[j-1], residents[j]
		}
	}
}

func candidateDeficit(ctx *constraint.Context, r *model.Resident) int {
	return r.EffectiveTarget() - hoursRunning(ctx, r)
}
