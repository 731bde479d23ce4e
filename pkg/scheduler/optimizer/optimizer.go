// Package optimizer implements Phase B: a fixed-iteration hill-climb
// with simulated-annealing-style acceptance over five neighborhood
// move types, with a tabu list of recently accepted moves that
// non-improving moves may not repeat.
package optimizer

import (
	"math"
	"math/rand"
	"time"

	"github.com/edwisdom/resident-scheduler/pkg/logger"
	"github.com/edwisdom/resident-scheduler/pkg/model"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/constraint"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/scorer"
)

// Config controls the search budget and annealing schedule.
type Config struct {
	MaxIterations    int
	MaxTime          time.Duration
	InitialTemp      float64
	CoolingRate      float64
	TabuSize         int
	PlateauThreshold int
}

func DefaultConfig() Config {
	return Config{
		MaxIterations:    20000,
		MaxTime:          30 * time.Second,
		InitialTemp:      50.0,
		CoolingRate:      0.995,
		TabuSize:         200,
		PlateauThreshold: 2000,
	}
}

// moveKind names the five neighborhood moves: exchanging two
// residents' shifts, reassigning one shift to a different resident,
// filling or dropping an optional shift, and reshaping a night-run
// onto a different resident.
type moveKind int

const (
	moveSwap moveKind = iota
	moveReassign
	moveFillOptional
	moveDropOptional
	moveNightRunReshape
)

var moveOrder = []moveKind{moveSwap, moveReassign, moveFillOptional, moveDropOptional, moveNightRunReshape}

var moveWeights = map[moveKind]float64{
	moveSwap:            0.30,
	moveReassign:        0.30,
	moveFillOptional:    0.20,
	moveDropOptional:    0.10,
	moveNightRunReshape: 0.10,
}

func (m moveKind) String() string {
	switch m {
	case moveSwap:
		return "swap"
	case moveReassign:
		return "reassign"
	case moveFillOptional:
		return "fill_optional"
	case moveDropOptional:
		return "drop_optional"
	case moveNightRunReshape:
		return "night_run_reshape"
	default:
		return "unknown"
	}
}

func selectMove(rng *rand.Rand) moveKind {
	r := rng.Float64()
	cumulative := 0.0
	for _, mk := range moveOrder {
		cumulative += moveWeights[mk]
		if r < cumulative {
			return mk
		}
	}
	return moveSwap
}

func boltzmann(delta, temperature float64) float64 {
	if delta <= 0 {
		return 1.0
	}
	if temperature <= 0 {
		return 0.0
	}
	return math.Exp(-delta / temperature)
}

// Optimize runs Phase B over ctx in place and returns the final score.
// Every accepted move has already been checked legal by the move
// function itself; a rejected move is reverted before the next
// iteration, so ctx is always a legal schedule between iterations.
func Optimize(rng *rand.Rand, ctx *constraint.Context, runs []*model.NightRun, w scorer.Weights, cfg Config) float64 {
	log := logger.NewSchedulerLogger()
	tabu := newTabuList(cfg.TabuSize)

	for _, run := range runs {
		ctx.NightRuns[run.ResidentHandle] = run
	}

	score := scorer.Score(ctx, w)
	best := score
	temperature := cfg.InitialTemp
	noImprovement := 0

	start := time.Now()
	for iter := 0; iter < cfg.MaxIterations; iter++ {
		if time.Since(start) > cfg.MaxTime {
			break
		}

		kind := selectMove(rng)
		result := tryMove(rng, ctx, w, kind)
		if !result.ok {
			continue
		}

		after := scorer.ResidentDelta(ctx, result.affected, w)
		delta := after - result.before

		accept := delta < 0
		if !accept && !tabu.contains(result.hash) {
			accept = rng.Float64() < boltzmann(delta, temperature)
		}

		if accept {
			tabu.add(result.hash)
			score += delta
			if score < best {
				best = score
				noImprovement = 0
			} else {
				noImprovement++
			}
			log.MoveAccepted(kind.String(), delta, iter)
		} else {
			result.revert()
			noImprovement++
		}

		if noImprovement >= cfg.PlateauThreshold {
			break
		}
		temperature *= cfg.CoolingRate
	}

	return scorer.Score(ctx, w)
}
