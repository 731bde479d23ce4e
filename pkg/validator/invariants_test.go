package validator

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

func shiftAt(code string, team model.Team, dayOffset, startHour, duration int, required bool) *model.ShiftInstance {
	date := horizon().AddDate(0, 0, dayOffset)
	return &model.ShiftInstance{
		Date:             date.Format("2006-01-02"),
		Code:             code,
		Team:             team,
		StartMinuteOfDay: startHour * 60,
		NominalDuration:  duration,
		Required:         required,
		EligiblePGY:      []int{1, 2, 3},
		AbsStart:         int64(dayOffset)*1440 + int64(startHour*60),
	}
}

func TestCheckAll_CleanScheduleHasNoViolations(t *testing.T) {
	r := &model.Resident{Handle: "a", PGYYear: 3, Service: model.ServiceED, HourTarget: 60}
	s := shiftAt("LR7", model.TeamR, 0, 7, 10, true)
	ctx := constraint.NewContext(horizon(), []*model.Resident{r}, []*model.ShiftInstance{s})
	ctx.Assign(s.Key(), r.Handle)

	violations := CheckAll(ctx)
	if len(violations) != 0 {
		t.Errorf("expected no violations, got %v", violations)
	}
}

func TestCheckRequiredFilled_CatchesUnfilledRequiredShift(t *testing.T) {
	s := shiftAt("LR7", model.TeamR, 0, 7, 10, true)
	ctx := constraint.NewContext(horizon(), nil, []*model.ShiftInstance{s})

	violations := checkRequiredFilled(ctx)
	if len(violations) != 1 || violations[0].Kind != KindRequiredUnfilled {
		t.Fatalf("expected one required_unfilled violation, got %v", violations)
	}
}

func TestCheckOffServiceNeverAssigned_CatchesViolation(t *testing.T) {
	r := &model.Resident{Handle: "a", PGYYear: 3, Service: model.ServiceOffService}
	s := shiftAt("LR7", model.TeamR, 0, 7, 10, true)
	ctx := constraint.NewContext(horizon(), []*model.Resident{r}, []*model.ShiftInstance{s})
	ctx.Assign(s.Key(), r.Handle) // bypass Legal directly, simulating a solver bug

	violations := checkOffServiceNeverAssigned(ctx)
	if len(violations) != 1 || violations[0].Kind != KindOffServiceWorked {
		t.Fatalf("expected one off_service_worked violation, got %v", violations)
	}
}

func TestCheckNightRuns_CatchesBadLengthAndNonAlternatingHospitals(t *testing.T) {
	ctx := constraint.NewContext(horizon(), nil, nil)
	ctx.NightRuns["a"] = &model.NightRun{
		ResidentHandle: "a",
		StartDate:      "2026-06-01",
		Length:         5,
		Hospitals:      []model.Hospital{model.HospitalL, model.HospitalL, model.HospitalW, model.HospitalL, model.HospitalW},
	}

	violations := checkNightRuns(ctx)
	var gotLength, gotAlternate bool
	for _, v := range violations {
		if v.Kind == KindNightRunLength {
			gotLength = true
		}
		if v.Kind == KindNightRunAlternate {
			gotAlternate = true
		}
	}
	if !gotLength || !gotAlternate {
		t.Errorf("expected both length and alternation violations, got %v", violations)
	}
}

func TestCheckWeeklyHours_CatchesOverCapSchedule(t *testing.T) {
	r := &model.Resident{Handle: "a", PGYYear: 3, Service: model.ServiceED, HourTarget: 72}
	var shifts []*model.ShiftInstance
	for i := 0; i < 6; i++ {
		shifts = append(shifts, shiftAt("LR12", model.TeamR, i, 7, 12, true))
	}
	ctx := constraint.NewContext(horizon(), []*model.Resident{r}, shifts)
	for _, s := range shifts {
		ctx.Assign(s.Key(), r.Handle)
	}

	violations := checkWeeklyHours(ctx)
	if len(violations) == 0 {
		t.Error("expected a weekly_hours violation for 72 hours in one week")
	}
}
