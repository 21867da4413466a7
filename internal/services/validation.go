package services

import (
	"regexp"
	"strconv"
)

// Pure input validators, shared by the profile-setup flow and the API layer
// so they stay testable away from any screen code. Empty strings are valid
// everywhere: all of these fields are optional.

var gpaPattern = regexp.MustCompile(`^\d*\.?\d*$`)

// ValidGPA accepts a decimal between 0.0 and 4.0, or an in-progress prefix
// like "3." the way the input field does.
func ValidGPA(v string) bool {
	if v == "" {
		return true
	}
	if !gpaPattern.MatchString(v) || v == "." {
		return false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return false
	}
	return f <= 4.0
}

// ValidSAT accepts a total score between 400 and 1600.
func ValidSAT(v string) bool {
	if v == "" {
		return true
	}
	n, err := strconv.Atoi(v)
	return err == nil && n >= 400 && n <= 1600
}

// ValidACT accepts a composite score between 1 and 36.
func ValidACT(v string) bool {
	if v == "" {
		return true
	}
	n, err := strconv.Atoi(v)
	return err == nil && n >= 1 && n <= 36
}
