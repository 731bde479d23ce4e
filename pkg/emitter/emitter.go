// Package emitter writes a solved schedule out as CSV: one row per
// shift-instance, chronological within each date.
package emitter

import (
	"encoding/csv"
	"io"
	"sort"

	"github.com/edwisdom/resident-scheduler/pkg/scheduler/constraint"
)

// header matches spec.md §6's Output CSV exactly: date, shift code,
// assigned resident handle (empty for an unfilled optional shift).
// Hospital and team are already encoded in the code (§3's H T N
// notation) and must not appear as separate columns.
var header = []string{"date", "code", "resident"}

// Write emits every shift-instance in ctx, one row per instance,
// ordered by date then by absolute start within the date. An unfilled
// optional shift's resident column is left empty.
func Write(w io.Writer, ctx *constraint.Context) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return err
	}

	rows := make([]row, 0, len(ctx.Shifts))
	for _, s := range ctx.Shifts {
		resident := ""
		if a, ok := ctx.Assignments[s.Key()]; ok {
			resident = a.ResidentHandle
		}
		rows = append(rows, row{
			date:     s.Date,
			code:     s.Code,
			resident: resident,
			absStart: s.AbsStart,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].absStart < rows[j].absStart
	})

	for _, r := range rows {
		if err := cw.Write([]string{r.date, r.code, r.resident}); err != nil {
			return err
		}
	}
	return cw.Error()
}

type row struct {
	date, code, resident string
	absStart             int64
}
