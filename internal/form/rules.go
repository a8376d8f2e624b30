// Package form validates submissions before anything goes over the network.
package form

import (
	"regexp"
	"strings"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10,15}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	codePattern  = regexp.MustCompile(`^\d{6}$`)
)

const MinPasswordLength = 6

func ValidPhone(s string) bool { return phonePattern.MatchString(s) }
func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

// Rule returns a non-nil error when unmet.
type Rule func() *ValidationError

// Chain returns the first unmet rule.
func Chain(rules ...Rule) error {
	for _, r := range rules {
		if err := r(); err != nil {
			return err
		}
	}
	return nil
}

func fail(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// Required fails when any value is empty.
func Required(msg string, values ...string) Rule {
	return func() *ValidationError {
		for _, v := range values {
			if v == "" {
				return fail("", msg)
			}
		}
		return nil
	}
}

// RequiredTrimmed is Required, treating whitespace-only values as empty.
func RequiredTrimmed(msg string, values ...string) Rule {
	trimmed := make([]string, len(values))
	for i, v := range values {
		trimmed[i] = strings.TrimSpace(v)
	}
	return Required(msg, trimmed...)
}

func Accepted(field string, ok bool, msg string) Rule {
	return func() *ValidationError {
		if !ok {
			return fail(field, msg)
		}
		return nil
	}
}

func MinLength(field, v string, n int, msg string) Rule {
	return func() *ValidationError {
		if len([]rune(v)) < n {
			return fail(field, msg)
		}
		return nil
	}
}

func Equal(field, a, b, msg string) Rule {
	return func() *ValidationError {
		if a != b {
			return fail(field, msg)
		}
		return nil
	}
}

func Matches(field string, re *regexp.Regexp, v, msg string) Rule {
	return func() *ValidationError {
		if !re.MatchString(v) {
			return fail(field, msg)
		}
		return nil
	}
}

func Phone(field, v, msg string) Rule { return Matches(field, phonePattern, v, msg) }
func Email(field, v, msg string) Rule { return Matches(field, emailPattern, v, msg) }

type Strength string

const (
	StrengthWeak   Strength = "Weak"
	StrengthMedium Strength = "Medium"
	StrengthStrong Strength = "Strong"
)

// PasswordStrength is Weak below the minimum length, Strong with an upper
// case letter and a digit, Medium otherwise.
func PasswordStrength(pw string) Strength {
	if len([]rune(pw)) < MinPasswordLength {
		return StrengthWeak
	}
	var upper, digit bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	if upper && digit {
		return StrengthStrong
	}
	return StrengthMedium
}
