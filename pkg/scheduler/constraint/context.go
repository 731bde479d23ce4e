// Package constraint holds the static eligibility rules and the
// dynamic per-resident state needed to test whether a proposed
// assignment is legal (spec.md §4.2). Context is the central index:
// no domain type carries back-pointers into it (spec.md §9).
package constraint

import (
	"sort"
	"time"

	"github.com/edwisdom/resident-scheduler/pkg/model"
)

// Context is the solver's working state for one solve: the full
// resident and shift-instance sets, the current (possibly partial)
// assignment, and indexes derived from it. All indexes are rebuilt
// incrementally as assignments are added or removed; nothing here is
// a field on model.Resident or model.ShiftInstance.
type Context struct {
	HorizonStart time.Time

	Residents []*model.Resident
	Shifts    []*model.ShiftInstance

	residentByHandle map[string]*model.Resident
	shiftByKey       map[string]*model.ShiftInstance

	// Assignments indexes the current (possibly partial) schedule.
	Assignments map[string]*model.Assignment // shift key -> assignment

	byResident map[string][]*model.Assignment // resident handle -> assignments, kept sorted by AbsStart
	byDate     map[string][]*model.Assignment // date -> assignments

	// NightRuns tracks committed night-runs keyed by resident handle;
	// a resident is mid-run iff present here with an incomplete run.
	NightRuns map[string]*model.NightRun
}

// NewContext builds an empty context over the given residents and
// shift-instances.
func NewContext(horizonStart time.Time, residents []*model.Resident, shifts []*model.ShiftInstance) *Context {
	c := &Context{
		HorizonStart:     horizonStart,
		Residents:        residents,
		Shifts:           shifts,
		residentByHandle: make(map[string]*model.Resident, len(residents)),
		shiftByKey:       make(map[string]*model.ShiftInstance, len(shifts)),
		Assignments:      make(map[string]*model.Assignment, len(shifts)),
		byResident:       make(map[string][]*model.Assignment),
		byDate:           make(map[string][]*model.Assignment),
		NightRuns:        make(map[string]*model.NightRun),
	}
	for _, r := range residents {
		c.residentByHandle[r.Handle] = r
	}
	for _, s := range shifts {
		c.shiftByKey[s.Key()] = s
	}
	return c
}

func (c *Context) Resident(handle string) *model.Resident {
	return c.residentByHandle[handle]
}

func (c *Context) Shift(key string) *model.ShiftInstance {
	return c.shiftByKey[key]
}

// ResidentAssignments returns the resident's current assignments,
// ordered by start instant.
func (c *Context) ResidentAssignments(handle string) []*model.Assignment {
	return c.byResident[handle]
}

// DateAssignments returns all current assignments on the given date.
func (c *Context) DateAssignments(date string) []*model.Assignment {
	return c.byDate[date]
}

// Assign records shift->resident in the working assignment and
// updates the derived indexes. It performs no legality check; callers
// must consult Legal first.
func (c *Context) Assign(shiftKey, residentHandle string) {
	shift := c.shiftByKey[shiftKey]
	if shift == nil {
		return
	}
	c.Unassign(shiftKey)

	a := &model.Assignment{
		ShiftKey:       shiftKey,
		Date:           shift.Date,
		Code:           shift.Code,
		ResidentHandle: residentHandle,
	}
	c.Assignments[shiftKey] = a
	if residentHandle == "" {
		return
	}
	c.byResident[residentHandle] = insertSorted(c.byResident[residentHandle], a, c)
	c.byDate[shift.Date] = append(c.byDate[shift.Date], a)
}

// Unassign removes any assignment on shiftKey.
func (c *Context) Unassign(shiftKey string) {
	existing, ok := c.Assignments[shiftKey]
	if !ok {
		return
	}
	delete(c.Assignments, shiftKey)
	if existing.ResidentHandle == "" {
		return
	}
	c.byResident[existing.ResidentHandle] = removeAssignment(c.byResident[existing.ResidentHandle], shiftKey)
	c.byDate[existing.Date] = removeAssignment(c.byDate[existing.Date], shiftKey)
}

func insertSorted(list []*model.Assignment, a *model.Assignment, c *Context) []*model.Assignment {
	list = append(list, a)
	sort.Slice(list, func(i, j int) bool {
		si, sj := c.shiftByKey[list[i].ShiftKey], c.shiftByKey[list[j].ShiftKey]
		return si.AbsStart < sj.AbsStart
	})
	return list
}

func removeAssignment(list []*model.Assignment, shiftKey string) []*model.Assignment {
	out := list[:0]
	for _, a := range list {
		if a.ShiftKey != shiftKey {
			out = append(out, a)
		}
	}
	return out
}

// HoursInWeek sums the resident's assigned hours in the Mon-Sun week
// containing date (spec.md §4.2 item 4).
func (c *Context) HoursInWeek(handle, date string) int {
	weekStart, weekEnd := mondaySundayWindow(date)
	total := 0
	for _, a := range c.byResident[handle] {
		if a.Date >= weekStart && a.Date <= weekEnd {
			shift := c.shiftByKey[a.ShiftKey]
			resident := c.residentByHandle[handle]
			total += shift.DurationForPGY(resident.PGYYear)
		}
	}
	return total
}

func mondaySundayWindow(date string) (start, end string) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date, date
	}
	offset := (int(t.Weekday()) + 6) % 7 // days since Monday
	monday := t.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format("2006-01-02"), sunday.Format("2006-01-02")
}
