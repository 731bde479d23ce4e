// Package roster loads the resident table (spec.md §6) into the
// in-memory roster the rest of the system solves against. It is an
// external collaborator: the contract (input format, error kinds) is
// fixed, its internals are not.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	schedulererrors "github.com/edwisdom/resident-scheduler/pkg/errors"
	"github.com/edwisdom/resident-scheduler/pkg/model"
)

// expected column order in the resident table.
const (
	colHandle = iota
	colPGYYear
	colService
	colHourTarget
	colRequests
	colChief
	expectedColumns
)

var header = []string{"handle", "pgy_year", "service", "hour_target", "requests", "chief"}

// row is the validated, still-string-typed shape of one CSV record
// before it is converted into a model.Resident.
type row struct {
	Handle     string `validate:"required"`
	PGYYear    int    `validate:"oneof=1 2 3"`
	Service    string `validate:"required"`
	HourTarget int    `validate:"gte=0"`
}

var validate = validator.New()

// Load reads and validates the resident table from r, resolving
// requested-off dates (given as M/D, no year) against refYear —
// ordinarily the scheduling horizon's start year. A request whose
// month falls before the horizon's start month is assumed to fall in
// refYear+1, so a block spanning a calendar year boundary resolves
// correctly.
func Load(r io.Reader, refYear int, refMonth time.Month) ([]*model.Resident, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, schedulererrors.InputError(fmt.Sprintf("malformed resident table: %v", err), 0)
	}
	if len(records) == 0 {
		return nil, schedulererrors.InputError("resident table is empty", 0)
	}

	start := 0
	if isHeaderRow(records[0]) {
		start = 1
	}

	seen := make(map[string]int) // handle -> row number, for duplicate detection
	var residents []*model.Resident

	for i := start; i < len(records); i++ {
		rowNum := i + 1 // 1-indexed, matching what an operator sees in a spreadsheet
		rec := records[i]
		if len(rec) < 5 {
			return nil, schedulererrors.InputError(
				fmt.Sprintf("expected at least 5 columns, got %d", len(rec)), rowNum)
		}

		resident, err := parseRow(rec, rowNum, refYear, refMonth)
		if err != nil {
			return nil, err
		}

		if prior, dup := seen[resident.Handle]; dup {
			return nil, schedulererrors.InputError(
				fmt.Sprintf("duplicate handle %q (first seen at row %d)", resident.Handle, prior), rowNum)
		}
		seen[resident.Handle] = rowNum

		residents = append(residents, resident)
	}

	return residents, nil
}

func isHeaderRow(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(rec[colHandle]), header[colHandle])
}

func parseRow(rec []string, rowNum, refYear int, refMonth time.Month) (*model.Resident, error) {
	handle := strings.TrimSpace(rec[colHandle])

	pgy, err := strconv.Atoi(strings.TrimSpace(rec[colPGYYear]))
	if err != nil {
		return nil, schedulererrors.InputError(fmt.Sprintf("unparseable PGY year %q", rec[colPGYYear]), rowNum)
	}

	svc, err := parseService(strings.TrimSpace(rec[colService]))
	if err != nil {
		return nil, schedulererrors.InputError(err.Error(), rowNum)
	}

	target, err := strconv.Atoi(strings.TrimSpace(rec[colHourTarget]))
	if err != nil {
		return nil, schedulererrors.InputError(fmt.Sprintf("unparseable hour target %q", rec[colHourTarget]), rowNum)
	}

	r := row{Handle: handle, PGYYear: pgy, Service: string(svc), HourTarget: target}
	if err := validate.Struct(r); err != nil {
		return nil, schedulererrors.InputError(fmt.Sprintf("invalid resident row: %v", err), rowNum)
	}

	requests, err := parseRequests(rec[colRequests], refYear, refMonth)
	if err != nil {
		return nil, schedulererrors.InputError(err.Error(), rowNum)
	}

	chief := false
	if len(rec) > colChief && strings.TrimSpace(rec[colChief]) != "" {
		chief, err = strconv.ParseBool(strings.TrimSpace(rec[colChief]))
		if err != nil {
			return nil, schedulererrors.InputError(fmt.Sprintf("unparseable chief flag %q", rec[colChief]), rowNum)
		}
	}
	if chief && pgy != 3 {
		return nil, schedulererrors.InputError("chief flag set on a non-PGY-3 resident", rowNum)
	}

	return &model.Resident{
		ID:         uuid.New(),
		Handle:     handle,
		PGYYear:    pgy,
		Service:    svc,
		HourTarget: target,
		Chief:      chief,
		Requests:   requests,
	}, nil
}

func parseService(s string) (model.Service, error) {
	switch strings.ToLower(s) {
	case "ed":
		return model.ServiceED, nil
	case "peds":
		return model.ServicePeds, nil
	case "off-service", "off_service", "offservice":
		return model.ServiceOffService, nil
	case "vacation":
		return model.ServiceVacation, nil
	default:
		return "", fmt.Errorf("unknown service label %q", s)
	}
}

// parseRequests splits a comma-separated M/D list into YYYY-MM-DD
// dates, resolving the year from refYear/refMonth (spec.md §6: request
// dates carry no year of their own).
func parseRequests(field string, refYear int, refMonth time.Month) (map[string]bool, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, nil
	}

	out := make(map[string]bool)
	for _, part := range strings.Split(field, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		md := strings.Split(part, "/")
		if len(md) != 2 {
			return nil, fmt.Errorf("unparseable request date %q", part)
		}
		month, errM := strconv.Atoi(md[0])
		day, errD := strconv.Atoi(md[1])
		if errM != nil || errD != nil || month < 1 || month > 12 || day < 1 || day > 31 {
			return nil, fmt.Errorf("unparseable request date %q", part)
		}

		year := refYear
		if time.Month(month) < refMonth {
			year++
		}
		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if int(date.Month()) != month || date.Day() != day {
			return nil, fmt.Errorf("unparseable request date %q", part)
		}
		out[date.Format("2006-01-02")] = true
	}
	return out, nil
}
