package solver

import (
	"math/rand"
	"testing"
	"time"

	"github.com/edwisdom/resident-scheduler/pkg/expander"
	"github.com/edwisdom/resident-scheduler/pkg/model"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/constraint"
)

func buildResidents(n int, team model.Team, pgy int, target int) []*model.Resident {
	var out []*model.Resident
	for i := 0; i < n; i++ {
		out = append(out, &model.Resident{
			Handle:     string(rune('a'+i)) + "-" + string(team),
			PGYYear:    pgy,
			Service:    model.ServiceED,
			HourTarget: target,
		})
	}
	return out
}

func TestSolve_SmallFeasibleInstanceFillsAllRequired(t *testing.T) {
	start, _ := time.Parse("2006-01-02", "2026-06-01")
	shifts, err := expander.Expand(start, 7, expander.DefaultTemplate())
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	var residents []*model.Resident
	residents = append(residents, buildResidents(6, model.TeamR, 3, 60)...)
	residents = append(residents, buildResidents(6, model.TeamG, 2, 60)...)
	residents = append(residents, buildResidents(8, model.TeamI, 1, 60)...)
	for _, r := range residents {
		r.Service = model.ServiceED
	}
	peds := buildResidents(4, model.TeamP, 1, 50)
	for _, r := range peds {
		r.Service = model.ServicePeds
	}
	residents = append(residents, peds...)

	ctx := constraint.NewContext(start, residents, shifts)
	rng := rand.New(rand.NewSource(42))

	_, err = Solve(rng, ctx, DefaultOptions())
	if err != nil {
		t.Fatalf("Solve failed on a generously-staffed instance: %v", err)
	}

	for _, s := range shifts {
		if !s.Required {
			continue
		}
		a, ok := ctx.Assignments[s.Key()]
		if !ok || !a.Filled() {
			t.Errorf("required shift %s was not filled", s.Code)
		}
	}
}

// TestSolve_GenuinelyInfeasibleInstanceReturnsInfeasibleError covers a
// shortage no amount of backtracking can repair: a single required
// team-I shift with no PGY-1 ED resident in the roster at all. Every
// shuffle and every random draw hits the same empty candidate pool, so
// Solve must still report infeasibility rather than looping forever.
func TestSolve_GenuinelyInfeasibleInstanceReturnsInfeasibleError(t *testing.T) {
	start, _ := time.Parse("2006-01-02", "2026-06-01")
	shift := &model.ShiftInstance{
		Date: "2026-06-01", Code: "LI7", Team: model.TeamI, Hospital: model.HospitalL,
		Required: true, EligiblePGY: []int{1}, PreferredPGY: []int{1}, NominalDuration: 12,
	}
	residents := buildResidents(3, model.TeamR, 3, 60) // PGY-3, none eligible for team I

	ctx := constraint.NewContext(start, residents, []*model.ShiftInstance{shift})
	rng := rand.New(rand.NewSource(1))

	_, err := Solve(rng, ctx, DefaultOptions())
	if err == nil {
		t.Fatal("expected Solve to report infeasibility when no resident is ever eligible for a required shift")
	}
}

// TestSolve_BacktrackRecoversFromABadFirstChoice constructs a day whose
// two required shifts overlap in eligibility (team R needs PGY-3 only;
// team E accepts any PGY) such that processing team E first and handing
// it to the PGY-3 resident leaves no one left for team R. Filling team
// R first always succeeds (it has exactly one eligible resident), but a
// shuffle that tries team E first only succeeds if the weighted draw
// picks the PGY-1 resident for it. Across many seeds, the per-day
// backtrack (undo and reshuffle) must eventually find a working order
// every time within the default budget.
func TestSolve_BacktrackRecoversFromABadFirstChoice(t *testing.T) {
	start, _ := time.Parse("2006-01-02", "2026-06-01")
	teamR := &model.ShiftInstance{
		Date: "2026-06-01", Code: "LR7", Team: model.TeamR, Hospital: model.HospitalL,
		Required: true, EligiblePGY: []int{3}, PreferredPGY: []int{3}, NominalDuration: 12,
	}
	teamE := &model.ShiftInstance{
		Date: "2026-06-01", Code: "LE11", Team: model.TeamE, Hospital: model.HospitalL,
		Required: true, EligiblePGY: []int{1, 2, 3}, PreferredPGY: []int{1}, NominalDuration: 10,
	}
	shifts := []*model.ShiftInstance{teamR, teamE}

	for seed := int64(0); seed < 20; seed++ {
		senior := &model.Resident{Handle: "senior", PGYYear: 3, Service: model.ServiceED, HourTarget: 60}
		intern := &model.Resident{Handle: "intern", PGYYear: 1, Service: model.ServiceED, HourTarget: 60}
		ctx := constraint.NewContext(start, []*model.Resident{senior, intern}, shifts)
		rng := rand.New(rand.NewSource(seed))

		if _, err := Solve(rng, ctx, DefaultOptions()); err != nil {
			t.Fatalf("seed %d: Solve failed to backtrack to a working order: %v", seed, err)
		}
		for _, s := range shifts {
			a, ok := ctx.Assignments[s.Key()]
			if !ok || !a.Filled() {
				t.Errorf("seed %d: required shift %s was not filled", seed, s.Code)
			}
		}
	}
}

func TestSolve_NightRunsAlternateAndHaveValidLength(t *testing.T) {
	start, _ := time.Parse("2006-01-02", "2026-06-01")
	shifts, err := expander.Expand(start, 10, expander.DefaultTemplate())
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	var residents []*model.Resident
	residents = append(residents, buildResidents(8, model.TeamR, 3, 60)...)
	residents = append(residents, buildResidents(8, model.TeamG, 2, 60)...)
	residents = append(residents, buildResidents(8, model.TeamI, 1, 60)...)
	peds := buildResidents(4, model.TeamP, 1, 50)
	for _, r := range peds {
		r.Service = model.ServicePeds
	}
	residents = append(residents, peds...)

	ctx := constraint.NewContext(start, residents, shifts)
	rng := rand.New(rand.NewSource(7))

	result, err := Solve(rng, ctx, DefaultOptions())
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	for _, run := range result.NightRuns {
		if run.Length != 3 && run.Length != 4 {
			t.Errorf("night-run for %s has invalid length %d", run.ResidentHandle, run.Length)
		}
		if !run.AlternatesHospitals() {
			t.Errorf("night-run for %s does not alternate hospitals: %v", run.ResidentHandle, run.Hospitals)
		}
	}
}
