package scorer

import (
	"testing"
	"time"

	"github.com/edwisdom/resident-scheduler/pkg/model"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/constraint"
)

func horizon() time.Time {
	t, _ := time.Parse("2006-01-02", "2026-06-01")
	return t
}

func shiftAt(code string, team model.Team, token string, dayOffset, startHour, duration int, required bool) *model.ShiftInstance {
	date := horizon().AddDate(0, 0, dayOffset)
	return &model.ShiftInstance{
		Date:             date.Format("2006-01-02"),
		Code:             code,
		Team:             team,
		Token:            token,
		StartMinuteOfDay: startHour * 60,
		NominalDuration:  duration,
		Required:         required,
		EligiblePGY:      []int{1, 2, 3},
		PreferredPGY:     []int{1, 2, 3},
		AbsStart:         int64(dayOffset)*1440 + int64(startHour*60),
	}
}

func TestScore_HourDeviationDominates(t *testing.T) {
	r := &model.Resident{Handle: "a", PGYYear: 3, Service: model.ServiceED, HourTarget: 60}
	s := shiftAt("LR7", model.TeamR, "7", 0, 7, 10, true)
	ctx := constraint.NewContext(horizon(), []*model.Resident{r}, []*model.ShiftInstance{s})
	ctx.Assign(s.Key(), r.Handle)

	w := DefaultWeights()
	score := Score(ctx, w)
	want := w.HourDeviation * 50 * 50 // target 60, actual 10, dev 50
	if score < want {
		t.Errorf("score %.2f should be at least the hour-deviation term %.2f", score, want)
	}
}

func TestScore_UnfilledOptionalPenalized(t *testing.T) {
	r := &model.Resident{Handle: "a", PGYYear: 3, Service: model.ServiceED, HourTarget: 0}
	opt := shiftAt("LR2", model.TeamR, "2", 0, 14, 10, false)
	ctx := constraint.NewContext(horizon(), []*model.Resident{r}, []*model.ShiftInstance{opt})

	w := DefaultWeights()
	score := Score(ctx, w)
	if score < w.UnfilledOptional {
		t.Errorf("expected unfilled optional penalty of at least %.2f, got %.2f", w.UnfilledOptional, score)
	}
}

// TestScore_PShiftFallbackByEDResidentIsPenalized mirrors spec.md §8's
// Peds-shortage scenario: once the Peds pool is exhausted, an
// ED-service resident can legally fill a P shift, but that fallback
// fill must still cost the preference-violation penalty (spec.md §4.5
// item 3) — PGY year alone can't tell a fallback fill from a true
// Peds-block resident, since team P has no PGY preference of its own.
func TestScore_PShiftFallbackByEDResidentIsPenalized(t *testing.T) {
	fallback := &model.Resident{Handle: "a", PGYYear: 3, Service: model.ServiceED, HourTarget: 60}
	s := shiftAt("LP9", model.TeamP, "9", 0, 9, 10, true)
	ctx := constraint.NewContext(horizon(), []*model.Resident{fallback}, []*model.ShiftInstance{s})
	ctx.Assign(s.Key(), fallback.Handle)

	w := DefaultWeights()
	got := preferenceTerm(ctx, w)
	if got != w.PreferenceViolation {
		t.Errorf("expected a preference violation of %.2f for an ED-service fallback fill, got %.2f", w.PreferenceViolation, got)
	}
}

func TestScore_PShiftByPedsResidentNotPenalized(t *testing.T) {
	peds := &model.Resident{Handle: "a", PGYYear: 1, Service: model.ServicePeds, HourTarget: 0, PedsHourTarget: 50}
	s := shiftAt("LP9", model.TeamP, "9", 0, 9, 10, true)
	ctx := constraint.NewContext(horizon(), []*model.Resident{peds}, []*model.ShiftInstance{s})
	ctx.Assign(s.Key(), peds.Handle)

	w := DefaultWeights()
	got := preferenceTerm(ctx, w)
	if got != 0 {
		t.Errorf("expected no preference violation for a true Peds-block resident, got %.2f", got)
	}
}

func TestResidentDelta_MatchesFullScoreContribution(t *testing.T) {
	r1 := &model.Resident{Handle: "a", PGYYear: 3, Service: model.ServiceED, HourTarget: 60}
	r2 := &model.Resident{Handle: "b", PGYYear: 3, Service: model.ServiceED, HourTarget: 60}
	s1 := shiftAt("LR7", model.TeamR, "7", 0, 7, 10, true)
	s2 := shiftAt("WR7", model.TeamR, "7", 0, 7, 10, true)
	ctx := constraint.NewContext(horizon(), []*model.Resident{r1, r2}, []*model.ShiftInstance{s1, s2})
	ctx.Assign(s1.Key(), r1.Handle)
	ctx.Assign(s2.Key(), r2.Handle)

	w := DefaultWeights()
	deltaA := ResidentDelta(ctx, []string{"a"}, w)
	deltaBoth := ResidentDelta(ctx, []string{"a", "b"}, w)
	if deltaBoth < deltaA {
		t.Errorf("delta over both residents (%.2f) should be >= delta over one (%.2f)", deltaBoth, deltaA)
	}
}
