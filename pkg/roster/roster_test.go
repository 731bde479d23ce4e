package roster

import (
	"strings"
	"testing"
	"time"

	schedulererrors "github.com/edwisdom/resident-scheduler/pkg/errors"
)

const validCSV = `handle,pgy_year,service,hour_target,requests,chief
alice,3,ED,60,7/4,true
bob,2,ED,60,,false
carol,1,Peds,50,"12/25,1/1",false
`

func TestLoad_ValidTable(t *testing.T) {
	residents, err := Load(strings.NewReader(validCSV), 2026, time.July)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(residents) != 3 {
		t.Fatalf("got %d residents, want 3", len(residents))
	}
	if !residents[0].Chief || residents[0].PGYYear != 3 {
		t.Errorf("alice: got chief=%v pgy=%d, want chief=true pgy=3", residents[0].Chief, residents[0].PGYYear)
	}
	if !residents[0].Requested("2026-07-04") {
		t.Errorf("alice should have requested 2026-07-04 off")
	}
}

func TestLoad_RequestYearRollsOverPastHorizonYearEnd(t *testing.T) {
	residents, err := Load(strings.NewReader(validCSV), 2026, time.July)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	carol := residents[2]
	if !carol.Requested("2026-12-25") {
		t.Errorf("expected 12/25 to resolve to 2026-12-25")
	}
	if !carol.Requested("2027-01-01") {
		t.Errorf("expected 1/1 to resolve to 2027-01-01 (rolls past horizon start month)")
	}
}

func TestLoad_DuplicateHandle(t *testing.T) {
	csvData := `handle,pgy_year,service,hour_target,requests,chief
alice,3,ED,60,,false
alice,2,ED,60,,false
`
	_, err := Load(strings.NewReader(csvData), 2026, time.July)
	if schedulererrors.GetCode(err) != schedulererrors.CodeInputError {
		t.Fatalf("expected CodeInputError for duplicate handle, got %v", err)
	}
}

func TestLoad_UnknownService(t *testing.T) {
	csvData := `handle,pgy_year,service,hour_target,requests,chief
alice,3,Surgery,60,,false
`
	_, err := Load(strings.NewReader(csvData), 2026, time.July)
	if schedulererrors.GetCode(err) != schedulererrors.CodeInputError {
		t.Fatalf("expected CodeInputError for unknown service, got %v", err)
	}
}

func TestLoad_UnparseableRequestDate(t *testing.T) {
	csvData := `handle,pgy_year,service,hour_target,requests,chief
alice,3,ED,60,13/40,false
`
	_, err := Load(strings.NewReader(csvData), 2026, time.July)
	if schedulererrors.GetCode(err) != schedulererrors.CodeInputError {
		t.Fatalf("expected CodeInputError for unparseable date, got %v", err)
	}
}

func TestLoad_ChiefOnNonPGY3Rejected(t *testing.T) {
	csvData := `handle,pgy_year,service,hour_target,requests,chief
alice,2,ED,60,,true
`
	_, err := Load(strings.NewReader(csvData), 2026, time.July)
	if schedulererrors.GetCode(err) != schedulererrors.CodeInputError {
		t.Fatalf("expected CodeInputError for chief flag on non-PGY-3, got %v", err)
	}
}
