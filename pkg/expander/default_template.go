package expander

import "github.com/edwisdom/resident-scheduler/pkg/model"

// TemplateRow is one row of the weekly shift template: a team's shift
// at a given hospital and start-token, repeated every day of the
// scheduling horizon subject to the Wednesday exceptions in spec.md
// §4.1. Optional rows are the ones shown parenthesized in the
// template; they are filled only to help drive residents toward their
// hour target (spec.md §4.5 item 2).
type TemplateRow struct {
	Hospital model.Hospital
	Team     model.Team
	Token    string
	Required bool
}

// DefaultTemplate is the compiled-in weekly shift template used when no
// override file is supplied (spec.md §4.1, §6).
func DefaultTemplate() []TemplateRow {
	return []TemplateRow{
		// Hospital L
		{model.HospitalL, model.TeamR, "7", true},
		{model.HospitalL, model.TeamR, "2", false},
		{model.HospitalL, model.TeamR, "n", true},
		{model.HospitalL, model.TeamG, "7", true},
		{model.HospitalL, model.TeamG, "4", false},
		{model.HospitalL, model.TeamG, "n", true},
		{model.HospitalL, model.TeamI, "7", true},
		{model.HospitalL, model.TeamI, "1", false},
		{model.HospitalL, model.TeamE, "11", true},
		{model.HospitalL, model.TeamE, "4", false},
		{model.HospitalL, model.TeamB, "7", true},
		{model.HospitalL, model.TeamP, "9", true},
		{model.HospitalL, model.TeamP, "2", false},

		// Hospital W
		{model.HospitalW, model.TeamR, "7", true},
		{model.HospitalW, model.TeamR, "n", true},
		{model.HospitalW, model.TeamG, "7", true},
		{model.HospitalW, model.TeamG, "n", true},
		{model.HospitalW, model.TeamI, "7", true},
		{model.HospitalW, model.TeamE, "11", true},
		{model.HospitalW, model.TeamP, "9", true},
	}
}

// wednesdaySpecials are the two intern shifts that replace the missing
// 07:00 slots every Wednesday (spec.md §4.1).
func wednesdaySpecials() []TemplateRow {
	return []TemplateRow{
		{model.HospitalL, model.TeamI, "dw", true},
		{model.HospitalL, model.TeamB, "11w", true},
	}
}
