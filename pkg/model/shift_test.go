package model

import "testing"

func TestShiftInstance_DurationForPGY(t *testing.T) {
	tests := []struct {
		name     string
		shift    ShiftInstance
		pgy      int
		expected int
	}{
		{
			name:     "peds shift is always 10h regardless of PGY",
			shift:    ShiftInstance{Team: TeamP, NominalDuration: 12},
			pgy:      1,
			expected: 10,
		},
		{
			name:     "eval shift for PGY-1 is 12h",
			shift:    ShiftInstance{Team: TeamE, NominalDuration: 10},
			pgy:      1,
			expected: 12,
		},
		{
			name:     "eval shift for PGY-2 is 10h",
			shift:    ShiftInstance{Team: TeamE, NominalDuration: 10},
			pgy:      2,
			expected: 10,
		},
		{
			name:     "eval shift for PGY-3 is 10h",
			shift:    ShiftInstance{Team: TeamE, NominalDuration: 10},
			pgy:      3,
			expected: 10,
		},
		{
			name:     "non-peds non-eval shift uses the nominal duration",
			shift:    ShiftInstance{Team: TeamR, NominalDuration: 10},
			pgy:      3,
			expected: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shift.DurationForPGY(tt.pgy); got != tt.expected {
				t.Errorf("DurationForPGY(%d) = %d, expected %d", tt.pgy, got, tt.expected)
			}
		})
	}
}

func TestShiftInstance_EligibleFor(t *testing.T) {
	s := ShiftInstance{EligiblePGY: []int{2, 3}}

	if s.EligibleFor(1) {
		t.Error("PGY-1 should not be eligible")
	}
	if !s.EligibleFor(2) {
		t.Error("PGY-2 should be eligible")
	}
	if !s.EligibleFor(3) {
		t.Error("PGY-3 should be eligible")
	}
}

func TestShiftInstance_PreferredFor_EmptyMeansAllPreferred(t *testing.T) {
	s := ShiftInstance{EligiblePGY: []int{1, 2, 3}}
	for pgy := 1; pgy <= 3; pgy++ {
		if !s.PreferredFor(pgy, ServiceED) {
			t.Errorf("PGY-%d should be preferred when PreferredPGY is unset", pgy)
		}
	}
}

func TestShiftInstance_PreferredFor_TeamPIsServiceAware(t *testing.T) {
	s := ShiftInstance{Team: TeamP, EligiblePGY: []int{1, 2}}
	if !s.PreferredFor(1, ServicePeds) {
		t.Error("a Peds-service resident should be preferred on a P shift regardless of PGY")
	}
	if s.PreferredFor(3, ServiceED) {
		t.Error("an ED-service fallback resident should not be preferred on a P shift")
	}
}

func TestShiftInstance_AbsEndForPGY(t *testing.T) {
	s := ShiftInstance{Team: TeamE, NominalDuration: 10, AbsStart: 600}

	if got, want := s.AbsEndForPGY(1), int64(600+12*60); got != want {
		t.Errorf("AbsEndForPGY(1) = %d, want %d", got, want)
	}
	if got, want := s.AbsEndForPGY(2), int64(600+10*60); got != want {
		t.Errorf("AbsEndForPGY(2) = %d, want %d", got, want)
	}
}

func TestShiftInstance_Key(t *testing.T) {
	s := ShiftInstance{Date: "2026-07-04", Code: "LR7"}
	if got, want := s.Key(), "2026-07-04|LR7"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}
