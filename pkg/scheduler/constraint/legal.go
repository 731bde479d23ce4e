package constraint

import (
	"fmt"
	"time"

	"github.com/edwisdom/resident-scheduler/pkg/model"
)

// maxWeeklyHours is the rolling Mon-Sun cap (spec.md §4.2 item 4).
const maxWeeklyHours = 60

// freeWindowHours is the continuous free interval every rolling 7-day
// window must contain (spec.md §4.2 item 5).
const freeWindowHours = 24

// Legal implements the single predicate named in spec.md §4.2: whether
// resident may be assigned shift given the context's current (partial)
// assignment. It never mutates ctx. allowPedsFallback widens check 1
// to the P-team fallback pool (spec.md §4.3); the solver only passes
// true on a second pass, after the primary pool has been tried and
// found to contain no legal candidate (spec.md §8 testable property:
// "P shifts are assigned to a Peds-block resident ... before falling
// back").
func Legal(ctx *Context, resident *model.Resident, shift *model.ShiftInstance, allowPedsFallback bool) (bool, string) {
	if !resident.Schedulable() {
		return false, "resident is Off-Service or Vacation"
	}
	if !shift.EligibleFor(resident.PGYYear) && !(allowPedsFallback && shift.Team == model.TeamP) {
		return false, "resident's PGY year is not eligible for this shift"
	}

	if ok, reason := serviceEligible(resident, shift, allowPedsFallback); !ok {
		return false, reason
	}
	if ok, reason := sameDayUnique(ctx, resident, shift); !ok {
		return false, reason
	}
	if ok, reason := equalRest(ctx, resident, shift); !ok {
		return false, reason
	}
	if ok, reason := weeklyHoursOK(ctx, resident, shift); !ok {
		return false, reason
	}
	if ok, reason := freeWindowOK(ctx, resident, shift); !ok {
		return false, reason
	}
	// Night-run legality (check 6) is enforced as a commitment by the
	// solver's night-run planner (spec.md §4.4), not per single shift:
	// a bare night assignment outside a committed run is never
	// proposed to Legal in the first place.
	return true, ""
}

// serviceEligible implements spec.md §4.2 item 1 and §4.3's P-team
// fallback.
func serviceEligible(resident *model.Resident, shift *model.ShiftInstance, allowPedsFallback bool) (bool, string) {
	if resident.Service == model.ServiceED {
		if shift.Team == model.TeamP {
			return allowPedsFallback, "ED-service resident on a P shift requires the fallback pool"
		}
		return true, ""
	}
	if resident.Service == model.ServicePeds {
		if shift.Team == model.TeamP {
			return true, ""
		}
		return false, "Peds-service resident may only fill P-team shifts"
	}
	return false, "resident's service is neither ED nor Peds"
}

func sameDayUnique(ctx *Context, resident *model.Resident, shift *model.ShiftInstance) (bool, string) {
	for _, a := range ctx.byDate[shift.Date] {
		if a.ResidentHandle == resident.Handle {
			return false, fmt.Sprintf("resident already has a shift on %s", shift.Date)
		}
	}
	return true, ""
}

// equalRest implements spec.md §4.2 item 3 against the resident's
// immediate neighbors in time, tentatively inserting shift.
func equalRest(ctx *Context, resident *model.Resident, shift *model.ShiftInstance) (bool, string) {
	existing := ctx.byResident[resident.Handle]
	tentativeEnd := shift.AbsEndForPGY(resident.PGYYear)

	var prev, next *model.Assignment
	for _, a := range existing {
		s := ctx.shiftByKey[a.ShiftKey]
		if s.AbsStart < shift.AbsStart {
			prev = a
		} else if next == nil {
			next = a
		}
	}

	if prev != nil {
		prevShift := ctx.shiftByKey[prev.ShiftKey]
		prevResident := ctx.residentByHandle[prev.ResidentHandle]
		prevEnd := prevShift.AbsEndForPGY(prevResident.PGYYear)
		gap := shift.AbsStart - prevEnd
		if gap < int64(prevShift.DurationForPGY(prevResident.PGYYear))*60 {
			return false, "insufficient rest after the preceding shift"
		}
	}
	if next != nil {
		nextShift := ctx.shiftByKey[next.ShiftKey]
		gap := nextShift.AbsStart - tentativeEnd
		if gap < int64(shift.DurationForPGY(resident.PGYYear))*60 {
			return false, "insufficient rest before the following shift"
		}
	}
	return true, ""
}

func weeklyHoursOK(ctx *Context, resident *model.Resident, shift *model.ShiftInstance) (bool, string) {
	existing := ctx.HoursInWeek(resident.Handle, shift.Date)
	if existing+shift.DurationForPGY(resident.PGYYear) > maxWeeklyHours {
		return false, "would exceed the 60-hour Mon-Sun weekly cap"
	}
	return true, ""
}

// interval is a half-open [start, end) span of absolute minutes from
// the horizon's start.
type interval struct{ start, end int64 }

// freeWindowOK implements spec.md §4.2 item 5: for every 7-day window
// containing shift's date, the resident must retain a continuous
// 24-hour free interval once shift is tentatively added.
func freeWindowOK(ctx *Context, resident *model.Resident, shift *model.ShiftInstance) (bool, string) {
	date, err := time.Parse("2006-01-02", shift.Date)
	if err != nil {
		return true, ""
	}

	intervals := make([]interval, 0, len(ctx.byResident[resident.Handle])+1)
	for _, a := range ctx.byResident[resident.Handle] {
		s := ctx.shiftByKey[a.ShiftKey]
		r := ctx.residentByHandle[a.ResidentHandle]
		intervals = append(intervals, interval{s.AbsStart, s.AbsEndForPGY(r.PGYYear)})
	}
	intervals = append(intervals, interval{shift.AbsStart, shift.AbsEndForPGY(resident.PGYYear)})

	for offset := -6; offset <= 0; offset++ {
		winStartDate := date.AddDate(0, 0, offset)
		winStart := absMinutesFromHorizon(ctx.HorizonStart, winStartDate)
		winEnd := winStart + 7*1440

		if !hasFreeWindow(intervals, winStart, winEnd, freeWindowHours*60) {
			return false, fmt.Sprintf("no 24h free interval remains in the 7-day window starting %s", winStartDate.Format("2006-01-02"))
		}
	}
	return true, ""
}

func absMinutesFromHorizon(horizonStart, date time.Time) int64 {
	days := date.Sub(horizonStart).Hours() / 24
	return int64(days) * 1440
}

func hasFreeWindow(intervals []interval, winStart, winEnd, need int64) bool {
	// Clip intervals to the window and sort by start.
	clipped := make([]interval, 0, len(intervals))
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
		clipped = append(clipped, interval{s, e})
	}
	for i := 0; i < len(clipped); i++ {
		for j := i + 1; j < len(clipped); j++ {
			if clipped[j].start < clipped[i].start {
				clipped[i], clipped[j] = clipped[j], clipped[i]
			}
		}
	}

	cursor := winStart
	for _, iv := range clipped {
		if iv.start-cursor >= need {
			return true
		}
		if iv.end > cursor {
			cursor = iv.end
		}
	}
	return winEnd-cursor >= need
}
