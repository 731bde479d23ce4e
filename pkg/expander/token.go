package expander

// tokenSpec decodes one start-token row of spec.md §4.1's table.
// A duration of 0 means the token is not defined for that PGY class.
type tokenSpec struct {
	startMinute   int // minutes from local midnight
	pgy1Duration  int // hours; 0 if undefined for PGY-1
	pgy23Duration int // hours; 0 if undefined for PGY-2/3
}

var tokenTable = map[string]tokenSpec{
	"7":   {startMinute: 7 * 60, pgy1Duration: 12, pgy23Duration: 10},
	"9":   {startMinute: 9 * 60, pgy1Duration: 0, pgy23Duration: 10},
	"11":  {startMinute: 11 * 60, pgy1Duration: 12, pgy23Duration: 0},
	"1":   {startMinute: 13 * 60, pgy1Duration: 12, pgy23Duration: 10},
	"2":   {startMinute: 14 * 60, pgy1Duration: 12, pgy23Duration: 10},
	"4":   {startMinute: 16 * 60, pgy1Duration: 12, pgy23Duration: 10},
	"n":   {startMinute: 19 * 60, pgy1Duration: 12, pgy23Duration: 10},
	"dw":  {startMinute: 14 * 60, pgy1Duration: 5, pgy23Duration: 0},
	"11w": {startMinute: 14 * 60, pgy1Duration: 9, pgy23Duration: 0},
}
