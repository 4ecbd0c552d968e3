package sbudesk

import "testing"

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		pw      string
		percent int
		label   string
		valid   bool
	}{
		{"", 0, "Very Weak", false},
		{"abc", 20, "Weak", false},
		{"abcdefgh", 40, "Fair", false},
		{"Abcdefgh", 60, "Good", false},
		{"Abcdefg1", 80, "Strong", false},
		{"Abcdef1!", 100, "Strong", true},
		{"ABCDEF1!", 80, "Strong", false},
	}
	for _, tt := range tests {
		s := PasswordStrength(tt.pw)
		if s.Percent != tt.percent {
			t.Errorf("PasswordStrength(%q).Percent = %d, want %d", tt.pw, s.Percent, tt.percent)
		}
		if got := s.Label(); got != tt.label {
			t.Errorf("PasswordStrength(%q).Label() = %q, want %q", tt.pw, got, tt.label)
		}
		if got := s.Valid(); got != tt.valid {
			t.Errorf("PasswordStrength(%q).Valid() = %v, want %v", tt.pw, got, tt.valid)
		}
		if got, want := len(s.Missing()), 5-tt.percent/20; got != want {
			t.Errorf("PasswordStrength(%q).Missing() has %d rules, want %d", tt.pw, got, want)
		}
	}
}
