package parallel

import (
	"context"
	"testing"
	"time"

	"github.com/edwisdom/resident-scheduler/pkg/expander"
	"github.com/edwisdom/resident-scheduler/pkg/model"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/optimizer"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/scorer"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/solver"
)

func buildResidents(n int, team model.Team, pgy int, target int) []*model.Resident {
	var out []*model.Resident
	for i := 0; i < n; i++ {
		out = append(out, &model.Resident{
			Handle:     string(rune('a'+i)) + "-" + string(team),
			PGYYear:    pgy,
			Service:    model.ServiceED,
			HourTarget: target,
			Requests:   map[string]bool{},
		})
	}
	return out
}

func TestRace_ReturnsLowestScoringFeasibleRun(t *testing.T) {
	start, _ := time.Parse("2006-01-02", "2026-06-01")
	shifts, err := expander.Expand(start, 7, expander.DefaultTemplate())
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	var residents []*model.Resident
	residents = append(residents, buildResidents(6, model.TeamR, 3, 60)...)
	residents = append(residents, buildResidents(6, model.TeamG, 2, 60)...)
	residents = append(residents, buildResidents(8, model.TeamI, 1, 60)...)
	peds := buildResidents(4, model.TeamP, 1, 50)
	for _, r := range peds {
		r.Service = model.ServicePeds
	}
	residents = append(residents, peds...)

	opts := Options{
		Seeds:           []int64{1, 2, 3, 4},
		SolverOptions:   solver.DefaultOptions(),
		OptimizerConfig: optimizer.Config{MaxIterations: 200, MaxTime: 2 * time.Second, InitialTemp: 10, CoolingRate: 0.99, TabuSize: 50, PlateauThreshold: 500},
		Weights:         scorer.DefaultWeights(),
	}

	best, err := Race(context.Background(), start, residents, shifts, opts)
	if err != nil {
		t.Fatalf("Race failed: %v", err)
	}
	if best.Context == nil {
		t.Fatal("expected a populated context on the winning run")
	}

	for _, s := range shifts {
		if !s.Required {
			continue
		}
		if a, ok := best.Context.Assignments[s.Key()]; !ok || !a.Filled() {
			t.Errorf("winning run left required shift %s unfilled", s.Code)
		}
	}
}

func TestRace_WorkersDoNotShareState(t *testing.T) {
	start, _ := time.Parse("2006-01-02", "2026-06-01")
	shifts, err := expander.Expand(start, 7, expander.DefaultTemplate())
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	residents := buildResidents(6, model.TeamR, 3, 60)
	residents = append(residents, buildResidents(6, model.TeamG, 2, 60)...)
	residents = append(residents, buildResidents(8, model.TeamI, 1, 60)...)
	peds := buildResidents(4, model.TeamP, 1, 50)
	for _, r := range peds {
		r.Service = model.ServicePeds
	}
	residents = append(residents, peds...)

	opts := Options{
		Seeds:           []int64{10, 20},
		SolverOptions:   solver.DefaultOptions(),
		OptimizerConfig: optimizer.Config{MaxIterations: 50, MaxTime: time.Second, InitialTemp: 5, CoolingRate: 0.99, TabuSize: 20, PlateauThreshold: 200},
		Weights:         scorer.DefaultWeights(),
	}

	run1 := runOne(start, residents, shifts, 10, opts)
	run2 := runOne(start, residents, shifts, 20, opts)

	if run1.Err != nil || run2.Err != nil {
		t.Fatalf("unexpected errors: %v / %v", run1.Err, run2.Err)
	}
	for _, r := range residents {
		if len(r.Requests) != 0 {
			t.Errorf("original resident %s was mutated by a worker's clone", r.Handle)
		}
	}
	if run1.Context == run2.Context {
		t.Error("two race workers shared the same Context pointer")
	}
}
