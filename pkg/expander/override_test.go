package expander

import (
	"strings"
	"testing"

	"github.com/edwisdom/resident-scheduler/pkg/model"
)

func TestLoadTemplateOverride_ParsesRows(t *testing.T) {
	src := `
- hospital: L
  team: R
  token: "7"
  required: true
- hospital: W
  team: G
  token: "n"
  required: true
`
	rows, err := LoadTemplateOverride(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadTemplateOverride failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Hospital != model.HospitalL || rows[0].Team != model.TeamR || rows[0].Token != "7" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if !rows[1].Required {
		t.Errorf("expected second row to be required")
	}
}

func TestLoadTemplateOverride_RejectsMultiLetterHospital(t *testing.T) {
	src := `
- hospital: LW
  team: R
  token: "7"
  required: true
`
	_, err := LoadTemplateOverride(strings.NewReader(src))
	if err == nil {
		t.Fatal("expected an error for a multi-letter hospital code")
	}
}
