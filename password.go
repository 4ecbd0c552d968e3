package sbudesk

import "strings"

const passwordSpecials = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// Strength describes how a candidate password scores against the account policy.
type Strength struct {
	Length    bool // at least 8 characters
	Uppercase bool
	Lowercase bool
	Number    bool
	Special   bool
	Percent   int // 20 per rule satisfied
}

// PasswordStrength checks pw against the employee account policy.
func PasswordStrength(pw string) Strength {
	s := Strength{Length: len([]rune(pw)) >= 8}
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			s.Uppercase = true
		case r >= 'a' && r <= 'z':
			s.Lowercase = true
		case r >= '0' && r <= '9':
			s.Number = true
		case strings.ContainsRune(passwordSpecials, r):
			s.Special = true
		}
	}
	for _, ok := range []bool{s.Length, s.Uppercase, s.Lowercase, s.Number, s.Special} {
		if ok {
			s.Percent += 20
		}
	}
	return s
}

// Valid reports whether every rule is satisfied.
func (s Strength) Valid() bool { return s.Percent == 100 }

// Label is the human readable strength.
func (s Strength) Label() string {
	switch {
	case s.Percent < 20:
		return "Very Weak"
	case s.Percent < 40:
		return "Weak"
	case s.Percent < 60:
		return "Fair"
	case s.Percent < 80:
		return "Good"
	}
	return "Strong"
}

// Missing lists the rules that are not satisfied.
func (s Strength) Missing() []string {
	var missing []string
	if !s.Length {
		missing = append(missing, "at least 8 characters")
	}
	if !s.Uppercase {
		missing = append(missing, "an uppercase letter")
	}
	if !s.Lowercase {
		missing = append(missing, "a lowercase letter")
	}
	if !s.Number {
		missing = append(missing, "a number")
	}
	if !s.Special {
		missing = append(missing, "a special character")
	}
	return missing
}
