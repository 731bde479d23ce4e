// Package stats summarizes a finished schedule: per-resident
// hour-deviation from target and per-shift-type fill rate. It
// produces a read-only report, not a validity check — validator
// handles invariant violations.
package stats

import (
	"math"
	"sort"

	"github.com/edwisdom/resident-scheduler/pkg/model"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/constraint"
)

// ResidentHours is one resident's worked-vs-target hour summary.
type ResidentHours struct {
	Handle      string
	Target      int
	Actual      int
	Deviation   int // Actual - Target
	ShiftCount  int
	NightShifts int
}

// TeamFillRate is the fraction of a team's shifts that ended up
// filled, split required vs optional.
type TeamFillRate struct {
	Team              model.Team
	TotalShifts       int
	FilledShifts      int
	RequiredShifts    int
	RequiredFilled    int
	OptionalShifts    int
	OptionalFilled    int
	FillRate          float64
}

// Report is the full summary of a finished schedule.
type Report struct {
	Residents        []ResidentHours
	TeamFillRates     []TeamFillRate
	HourDeviationGini float64 // 0 = perfectly even, 1 = maximally uneven
	OverallFillRate   float64
}

// Summarize builds a Report from ctx's current (presumably final)
// assignment.
func Summarize(ctx *constraint.Context) Report {
	residents := residentHours(ctx)
	teamRates, overallFill := teamFillRates(ctx)

	deviations := make([]float64, len(residents))
	for i, r := range residents {
		deviations[i] = math.Abs(float64(r.Deviation))
	}

	return Report{
		Residents:         residents,
		TeamFillRates:      teamRates,
		HourDeviationGini: gini(deviations),
		OverallFillRate:   overallFill,
	}
}

func residentHours(ctx *constraint.Context) []ResidentHours {
	var out []ResidentHours
	for _, r := range ctx.Residents {
		if !r.Schedulable() {
			continue
		}
		actual := 0
		nights := 0
		assignments := ctx.ResidentAssignments(r.Handle)
		for _, a := range assignments {
			s := ctx.Shift(a.ShiftKey)
			actual += s.DurationForPGY(r.PGYYear)
			if s.IsNight() {
				nights++
			}
		}
		out = append(out, ResidentHours{
			Handle:      r.Handle,
			Target:      r.EffectiveTarget(),
			Actual:      actual,
			Deviation:   actual - r.EffectiveTarget(),
			ShiftCount:  len(assignments),
			NightShifts: nights,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

func teamFillRates(ctx *constraint.Context) ([]TeamFillRate, float64) {
	byTeam := make(map[model.Team]*TeamFillRate)
	totalShifts, totalFilled := 0, 0

	for _, s := range ctx.Shifts {
		rate, ok := byTeam[s.Team]
		if !ok {
			rate = &TeamFillRate{Team: s.Team}
			byTeam[s.Team] = rate
		}
		rate.TotalShifts++
		totalShifts++

		filled := false
		if a, ok := ctx.Assignments[s.Key()]; ok && a.Filled() {
			filled = true
		}
		if filled {
			rate.FilledShifts++
			totalFilled++
		}
		if s.Required {
			rate.RequiredShifts++
			if filled {
				rate.RequiredFilled++
			}
		} else {
			rate.OptionalShifts++
			if filled {
				rate.OptionalFilled++
			}
		}
	}

	var out []TeamFillRate
	for _, rate := range byTeam {
		if rate.TotalShifts > 0 {
			rate.FillRate = float64(rate.FilledShifts) / float64(rate.TotalShifts)
		}
		out = append(out, *rate)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })

	overall := 0.0
	if totalShifts > 0 {
		overall = float64(totalFilled) / float64(totalShifts)
	}
	return out, overall
}

// gini computes the Gini coefficient of a slice of non-negative values
// (teacher's pkg/stats.calculateGini, over hour-deviation magnitudes
// instead of raw hours).
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	g := 0.0
	for i, v := range sorted {
		g += (2*float64(i+1) - float64(n) - 1) * v
	}
	g /= float64(n) * sum
	return math.Max(0, math.Min(1, g))
}
