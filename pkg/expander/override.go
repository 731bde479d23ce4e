package expander

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/edwisdom/resident-scheduler/pkg/model"
)

// overrideRow is the YAML-facing shape of a template row: Hospital and
// Team are single-letter strings in the file, decoded into the model
// package's byte-backed types here rather than teaching those types to
// unmarshal themselves.
type overrideRow struct {
	Hospital string `yaml:"hospital"`
	Team     string `yaml:"team"`
	Token    string `yaml:"token"`
	Required bool   `yaml:"required"`
}

// LoadTemplateOverride reads a weekly shift template from YAML,
// replacing DefaultTemplate entirely (spec.md §6: the template is an
// override, not a merge).
func LoadTemplateOverride(r io.Reader) ([]TemplateRow, error) {
	var rows []overrideRow
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("parsing template override: %w", err)
	}

	out := make([]TemplateRow, 0, len(rows))
	for i, row := range rows {
		if len(row.Hospital) != 1 {
			return nil, fmt.Errorf("template row %d: hospital must be a single letter, got %q", i, row.Hospital)
		}
		if len(row.Team) != 1 {
			return nil, fmt.Errorf("template row %d: team must be a single letter, got %q", i, row.Team)
		}
		out = append(out, TemplateRow{
			Hospital: model.Hospital(row.Hospital[0]),
			Team:     model.Team(row.Team[0]),
			Token:    row.Token,
			Required: row.Required,
		})
	}
	return out, nil
}
