package validation

import (
	"regexp"
	"strings"
)

// Validator accepts or rejects one line of prompt input.
type Validator func(string) bool

var imdbIDPattern = regexp.MustCompile(`^tt\d+$`)

// IMDbID accepts ids of the form tt0133093.
func IMDbID(s string) bool {
	return imdbIDPattern.MatchString(s)
}

// OptionalNumber accepts an empty string or plain digits, for season and
// episode numbers.
func OptionalNumber(s string) bool {
	s = strings.TrimSpace(s)
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// NonEmpty rejects blank input.
func NonEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}
