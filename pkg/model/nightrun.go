package model

// NightRun is a planned or placed maximal contiguous run of night-shift
// assignments to one resident, alternating hospitals night to night
// (spec.md §3, Night-run invariant). It is a first-class entity with
// its own lifecycle (planned -> partially placed -> complete ->
// optionally reshaped), per spec.md §9 Design Notes.
type NightRun struct {
	ResidentHandle string
	Team           Team
	StartDate      string // first night's date, YYYY-MM-DD
	Length         int    // 3 or 4

	// Hospitals[i] is the hospital letter for night i of the run, and
	// ShiftKeys[i] is the shift-instance key placed there once Phase A
	// has committed that night (empty string if not yet placed).
	Hospitals []Hospital
	ShiftKeys []string
}

// Complete reports whether every night of the run has a placed shift.
func (n *NightRun) Complete() bool {
	if len(n.ShiftKeys) != n.Length {
		return false
	}
	for _, k := range n.ShiftKeys {
		if k == "" {
			return false
		}
	}
	return true
}

// AlternatesHospitals reports whether consecutive nights strictly
// alternate hospital letters, as required by spec.md §3.
func (n *NightRun) AlternatesHospitals() bool {
	for i := 1; i < len(n.Hospitals); i++ {
		if n.Hospitals[i] == n.Hospitals[i-1] {
			return false
		}
	}
	return true
}
