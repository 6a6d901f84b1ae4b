// Package stringprocessing provides small string helpers used when expanding
// test configuration values: boolean evaluation and release-mode conditionals.
package stringprocessing

import "strings"

var (
	truthyValues = map[string]bool{"true": true, "1": true, "yes": true, "on": true, "enabled": true}
	falsyValues  = map[string]bool{"false": true, "0": true, "no": true, "off": true, "disabled": true}
)

// IsTruthy determines if a string represents a truthy value.
//
// Evaluation rules (case-insensitive):
//   - 'true', '1', 'yes', 'on', 'enabled' are truthy
//   - 'false', '0', 'no', 'off', 'disabled' are falsy
//   - empty or whitespace-only strings are falsy
//   - any other non-empty string is truthy
func IsTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return false
	}
	if truthyValues[value] {
		return true
	}
	if falsyValues[value] {
		return false
	}
	return true
}

// IsFalsy is the logical inverse of IsTruthy.
func IsFalsy(value string) bool {
	return !IsTruthy(value)
}
