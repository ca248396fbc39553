// ABOUTME: Tests for ISO-8601 duration parsing
// ABOUTME: Table of durations covering hours, minutes, days, and junk input

package normalize

import "testing"

func TestDurationToMinutes(t *testing.T) {
	tests := []struct {
		duration string
		minutes  int
		ok       bool
	}{
		{"PT30M", 30, true},
		{"PT1H", 60, true},
		{"PT1H30M", 90, true},
		{"P1D", 1440, true},
		{"P1DT2H", 1560, true},
		{"PT90S", 1, true},
		{"pt45m", 45, true},
		{" PT15M ", 15, true},
		{"PT0S", 0, false},
		{"PT0M", 0, false},
		{"P", 0, false},
		{"", 0, false},
		{"30 minutes", 0, false},
		{"T30M", 0, false},
	}

	for _, tt := range tests {
		minutes, ok := DurationToMinutes(tt.duration)
		if minutes != tt.minutes || ok != tt.ok {
			t.Errorf("DurationToMinutes(%q) = (%d, %v), want (%d, %v)",
				tt.duration, minutes, ok, tt.minutes, tt.ok)
		}
	}
}
