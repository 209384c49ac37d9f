// Package validate holds the pure form-validation predicates used by the
// signup/login flow. Both functions never return an error: bad input is
// simply false.
package validate

import "regexp"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email reports whether s looks like an email address: non-space characters,
// an '@', non-space characters, a '.', non-space characters. No further
// normalization is applied.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Password reports whether s is at least 6 characters. There are no
// complexity requirements.
func Password(s string) bool {
	return len([]rune(s)) >= 6
}
