// Package validator re-checks a finished schedule against every
// invariant the solver is supposed to have upheld along the way. It is
// a bug-check, not a constraint engine: nothing here runs during
// solving, and a violation here means the solver has a bug.
package validator

import (
	"fmt"
	"sort"

	"github.com/edwisdom/resident-scheduler/pkg/model"
	"github.com/edwisdom/resident-scheduler/pkg/scheduler/constraint"
)

// Kind names the property a Violation broke.
type Kind string

const (
	KindWeeklyHours      Kind = "weekly_hours"
	KindEqualRest        Kind = "equal_rest"
	KindFreeWindow       Kind = "free_window"
	KindOnePerDay        Kind = "one_per_day"
	KindNightRunLength   Kind = "night_run_length"
	KindNightRunAlternate Kind = "night_run_alternate"
	KindRequiredUnfilled Kind = "required_unfilled"
	KindOffServiceWorked Kind = "off_service_worked"
	KindPedsFallback     Kind = "peds_fallback_order"
)

// Violation is one broken invariant.
type Violation struct {
	Kind     Kind
	Resident string
	Date     string
	Message  string
}

// CheckAll runs every invariant check over the finished context.
func CheckAll(ctx *constraint.Context) []Violation {
	var out []Violation
	out = append(out, checkWeeklyHours(ctx)...)
	out = append(out, checkEqualRest(ctx)...)
	out = append(out, checkFreeWindow(ctx)...)
	out = append(out, checkOnePerDay(ctx)...)
	out = append(out, checkNightRuns(ctx)...)
	out = append(out, checkRequiredFilled(ctx)...)
	out = append(out, checkOffServiceNeverAssigned(ctx)...)
	out = append(out, checkPedsFallbackOrder(ctx)...)
	return out
}

func checkWeeklyHours(ctx *constraint.Context) []Violation {
	var out []Violation
	seen := make(map[string]bool)
	for _, r := range ctx.Residents {
		for _, a := range ctx.ResidentAssignments(r.Handle) {
			weekKey := r.Handle + "|" + a.Date
			if seen[weekKey] {
				continue
			}
			if hours := ctx.HoursInWeek(r.Handle, a.Date); hours > 60 {
				out = append(out, Violation{
					Kind:     KindWeeklyHours,
					Resident: r.Handle,
					Date:     a.Date,
					Message:  fmt.Sprintf("%d hours in the week containing %s exceeds the 60-hour cap", hours, a.Date),
				})
			}
			seen[weekKey] = true
		}
	}
	return out
}

func checkEqualRest(ctx *constraint.Context) []Violation {
	var out []Violation
	for _, r := range ctx.Residents {
		assignments := ctx.ResidentAssignments(r.Handle)
		for i := 0; i+1 < len(assignments); i++ {
			s1 := ctx.Shift(assignments[i].ShiftKey)
			s2 := ctx.Shift(assignments[i+1].ShiftKey)
			end1 := s1.AbsEndForPGY(r.PGYYear)
			gap := s2.AbsStart - end1
			if gap < int64(s1.DurationForPGY(r.PGYYear))*60 {
				out = append(out, Violation{
					Kind:     KindEqualRest,
					Resident: r.Handle,
					Date:     s2.Date,
					Message:  fmt.Sprintf("rest before %s/%s (%dm) is shorter than the preceding shift's duration", s2.Date, s2.Code, gap),
				})
			}
		}
	}
	return out
}

func checkFreeWindow(ctx *constraint.Context) []Violation {
	var out []Violation
	for _, r := range ctx.Residents {
		assignments := ctx.ResidentAssignments(r.Handle)
		if len(assignments) == 0 {
			continue
		}
		intervals := make([]interval, 0, len(assignments))
		for _, a := range assignments {
			s := ctx.Shift(a.ShiftKey)
			intervals = append(intervals, interval{s.AbsStart, s.AbsEndForPGY(r.PGYYear)})
		}
		sort.Slice(intervals, func(i, j int) bool { return intervals[i].start < intervals[j].start })

		span := windowSpan(ctx, intervals)
		for start := int64(0); start+7*1440 <= span; start += 1440 {
			if !hasFreeWindow(intervals, start, start+7*1440, 24*60) {
				out = append(out, Violation{
					Kind:     KindFreeWindow,
					Resident: r.Handle,
					Message:  fmt.Sprintf("no 24h free interval in the 7-day window starting at horizon offset %d minutes", start),
				})
			}
		}
	}
	return out
}

func windowSpan(ctx *constraint.Context, intervals []interval) int64 {
	max := int64(0)
	for _, iv := range intervals {
		if iv.end > max {
			max = iv.end
		}
	}
	return max
}

type interval struct{ start, end int64 }

func hasFreeWindow(intervals []interval, winStart, winEnd, need int64) bool {
	cursor := winStart
	for _, iv := range intervals {
		s, e := iv.start, iv.end
		if e <= winStart || s >= winEnd {
			continue
		}
		if s < winStart {
			s = winStart
		}
		if e > winEnd {
			e = winEnd
		}
		if s-cursor >= need {
			return true
		}
		if e > cursor {
			cursor = e
		}
	}
	return winEnd-cursor >= need
}

func checkOnePerDay(ctx *constraint.Context) []Violation {
	var out []Violation
	for _, date := range distinctDates(ctx) {
		counts := make(map[string]int)
		for _, a := range ctx.DateAssignments(date) {
			if a.Filled() {
				counts[a.ResidentHandle]++
			}
		}
		for handle, n := range counts {
			if n > 1 {
				out = append(out, Violation{Kind: KindOnePerDay, Resident: handle, Date: date, Message: fmt.Sprintf("assigned %d shifts on the same day", n)})
			}
		}
	}
	return out
}

func distinctDates(ctx *constraint.Context) []string {
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

func checkNightRuns(ctx *constraint.Context) []Violation {
	var out []Violation
	for handle, run := range ctx.NightRuns {
		if run.Length != 3 && run.Length != 4 {
			out = append(out, Violation{Kind: KindNightRunLength, Resident: handle, Date: run.StartDate, Message: fmt.Sprintf("night-run length %d is not 3 or 4", run.Length)})
		}
		if !run.AlternatesHospitals() {
			out = append(out, Violation{Kind: KindNightRunAlternate, Resident: handle, Date: run.StartDate, Message: "night-run does not alternate hospitals night to night"})
		}
	}
	return out
}

func checkRequiredFilled(ctx *constraint.Context) []Violation {
	var out []Violation
	for _, s := range ctx.Shifts {
		if !s.Required {
			continue
		}
		a, ok := ctx.Assignments[s.Key()]
		if !ok || !a.Filled() {
			out = append(out, Violation{Kind: KindRequiredUnfilled, Date: s.Date, Message: fmt.Sprintf("required shift %s/%s was left unfilled", s.Date, s.Code)})
		}
	}
	return out
}

func checkOffServiceNeverAssigned(ctx *constraint.Context) []Violation {
	var out []Violation
	for _, r := range ctx.Residents {
		if r.Schedulable() {
			continue
		}
		for _, a := range ctx.ResidentAssignments(r.Handle) {
			out = append(out, Violation{Kind: KindOffServiceWorked, Resident: r.Handle, Date: a.Date, Message: fmt.Sprintf("off-service/vacation resident was assigned %s", a.Code)})
		}
	}
	return out
}

// checkPedsFallbackOrder verifies the property from spec.md §8: every
// P-team shift filled by an ED-service resident had no legal
// Peds-service candidate at the time it was decided. This check can
// only confirm the weaker invariant that no Peds-service resident sits
// idle on a date an ED-service resident filled a P shift while being
// schedulable and not already assigned that day.
func checkPedsFallbackOrder(ctx *constraint.Context) []Violation {
	var out []Violation
	for _, s := range ctx.Shifts {
		if s.Team != model.TeamP {
			continue
		}
		a, ok := ctx.Assignments[s.Key()]
		if !ok || !a.Filled() {
			continue
		}
		filler := ctx.Resident(a.ResidentHandle)
		if filler.Service != model.ServiceED {
			continue
		}
		for _, r := range ctx.Residents {
			if r.Service != model.ServicePeds || !r.Schedulable() {
				continue
			}
			if hasAssignmentOnDate(ctx, r.Handle, s.Date) {
				continue
			}
			legal, _ := constraint.Legal(ctx, r, s, false)
			if legal {
				out = append(out, Violation{
					Kind:     KindPedsFallback,
					Resident: filler.Handle,
					Date:     s.Date,
					Message:  fmt.Sprintf("ED resident filled P shift %s while Peds resident %s was legal and idle", s.Code, r.Handle),
				})
			}
		}
	}
	return out
}

func hasAssignmentOnDate(ctx *constraint.Context, handle, date string) bool {
	for _, a := range ctx.DateAssignments(date) {
		if a.ResidentHandle == handle {
			return true
		}
	}
	return false
}
