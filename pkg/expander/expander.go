// Package expander turns the weekly shift template plus a date range
// into the dated, keyed set of shift-instances the rest of the system
// operates on (spec.md §4.1). It is pure data transformation: no
// scheduling choice is made here, and its output is deterministic and
// testable in isolation.
package expander

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/edwisdom/resident-scheduler/pkg/model"
)

// Expand produces the full set of shift-instances for [start, start+days)
// from the given template rows, applying the Wednesday exceptions and
// stamping each instance with its absolute start instant (minutes from
// the horizon's start).
func Expand(start time.Time, days int, template []TemplateRow) ([]*model.ShiftInstance, error) {
	if days <= 0 {
		return nil, fmt.Errorf("expander: horizon length must be positive, got %d", days)
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	var out []*model.ShiftInstance
	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day)
		rows := rowsForDate(date, template)

		for _, row := range rows {
			inst, err := buildInstance(date, day, row)
			if err != nil {
				return nil, err
			}
			out = append(out, inst)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AbsStart != out[j].AbsStart {
			return out[i].AbsStart < out[j].AbsStart
		}
		return out[i].Code < out[j].Code
	})

	return out, nil
}

// rowsForDate applies the Wednesday exceptions (spec.md §4.1): every
// 07:00 row is dropped, and hospital L's intern and backup teams get
// the two special shifts instead.
func rowsForDate(date time.Time, template []TemplateRow) []TemplateRow {
	if date.Weekday() != time.Wednesday {
		return template
	}

	rows := make([]TemplateRow, 0, len(template)+2)
	for _, row := range template {
		if row.Token == "7" {
			continue
		}
		rows = append(rows, row)
	}
	rows = append(rows, wednesdaySpecials()...)
	return rows
}

func buildInstance(date time.Time, dayOffset int, row TemplateRow) (*model.ShiftInstance, error) {
	spec, ok := tokenTable[row.Token]
	if !ok {
		return nil, fmt.Errorf("expander: unknown start-token %q", row.Token)
	}

	eligible, preferred := eligibility(row.Team)
	code := fmt.Sprintf("%c%c%s", row.Hospital, row.Team, row.Token)

	return &model.ShiftInstance{
		ID:                uuid.New(),
		Date:              date.Format("2006-01-02"),
		Code:              code,
		Hospital:          row.Hospital,
		Team:              row.Team,
		Token:             row.Token,
		StartMinuteOfDay:  spec.startMinute,
		NominalDuration:   nominalDuration(row.Team, row.Token),
		Required:          row.Required,
		EligiblePGY:       eligible,
		PreferredPGY:      preferred,
		AbsStart:          int64(dayOffset)*1440 + int64(spec.startMinute),
	}, nil
}
