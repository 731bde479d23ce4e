// Package parallel races independent seeded solves of the same
// problem instance and keeps the best-scoring result. Each race
// worker gets its own deep-copied residents, shifts, and *rand.Rand,
// so no mutable state crosses a goroutine boundary: the teacher's
// island-model optimizer evolves one shared Solution per island behind
// a mutex, which this package deliberately avoids in favor of
// per-worker copies that need no locking at all.
package parallel

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/edwisdom/resident-scheduler/pkg/logger"
	"github.com/edwisdom/resident-scheduler/pkg/model"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/constraint"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/optimizer"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/scorer"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/solver"
)

// Options configures one race: the seeds to run (one worker per seed)
// and the Phase A / Phase B / scoring configuration shared by all of
// them.
type Options struct {
	Seeds           []int64
	SolverOptions   solver.Options
	OptimizerConfig optimizer.Config
	Weights         scorer.Weights
}

// Run is one seed's complete outcome: Phase A plus Phase B applied to
// its own private copy of the problem.
type Run struct {
	Seed      int64
	Context   *constraint.Context
	NightRuns []*model.NightRun
	Score     float64
	Err       error
}

// Race runs one solve per seed concurrently and returns the
// lowest-scoring feasible run. If every seed is infeasible, it returns
// the error of the first failed run to finish.
func Race(ctx context.Context, horizonStart time.Time, residents []*model.Resident, shifts []*model.ShiftInstance, opts Options) (*Run, error) {
	log := logger.NewSchedulerLogger()
	started := time.Now()
	seeds := opts.Seeds
	if len(seeds) == 0 {
		seeds = []int64{1}
	}

	resultChan := make(chan *Run, len(seeds))
	var wg sync.WaitGroup
	for _, seed := range seeds {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				resultChan <- &Run{Seed: seed, Err: ctx.Err()}
				return
			default:
			}
			resultChan <- runOne(horizonStart, residents, shifts, seed, opts)
		}(seed)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var best *Run
	var firstErr *Run
	for run := range resultChan {
		if run.Err != nil {
			if firstErr == nil {
				firstErr = run
			}
			continue
		}
		if best == nil || run.Score < best.Score {
			best = run
		}
	}

	if best == nil {
		return nil, firstErr.Err
	}
	log.SolveComplete(best.Seed, best.Score, time.Since(started))
	return best, nil
}

// runOne performs Phase A then Phase B over a private copy of the
// problem, so the caller's residents/shifts slices are never mutated
// and no two goroutines ever touch the same Context.
func runOne(horizonStart time.Time, residents []*model.Resident, shifts []*model.ShiftInstance, seed int64, opts Options) *Run {
	rng := rand.New(rand.NewSource(seed))
	localResidents := cloneResidents(residents)
	localShifts := cloneShifts(shifts)

	ctx := constraint.NewContext(horizonStart, localResidents, localShifts)

	result, err := solver.Solve(rng, ctx, opts.SolverOptions)
	if err != nil {
		return &Run{Seed: seed, Err: err}
	}

	score := optimizer.Optimize(rng, ctx, result.NightRuns, opts.Weights, opts.OptimizerConfig)
	return &Run{Seed: seed, Context: ctx, NightRuns: result.NightRuns, Score: score}
}

func cloneResidents(in []*model.Resident) []*model.Resident {
	out := make([]*model.Resident, len(in))
	for i, r := range in {
		clone := *r
		clone.Requests = make(map[string]bool, len(r.Requests))
		for date := range r.Requests {
			clone.Requests[date] = true
		}
		out[i] = &clone
	}
	return out
}

func cloneShifts(in []*model.ShiftInstance) []*model.ShiftInstance {
	out := make([]*model.ShiftInstance, len(in))
	for i, s := range in {
		clone := *s
		clone.EligiblePGY = append([]int(nil), s.EligiblePGY...)
		clone.PreferredPGY = append([]int(nil), s.PreferredPGY...)
		out[i] = &clone
	}
	return out
}
