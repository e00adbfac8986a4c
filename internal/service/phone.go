package service

import (
	"regexp"
	"strings"
)

// Cameroonian mobile numbers: optional 237 country code, then a 6-prefixed
// subscriber number.
var phonePattern = regexp.MustCompile(`^(\+237|237)?[6][0-9]{8,9}$`)

// NormalizePhone strips all whitespace from a phone number. Registrations
// store and compare phones in this form.
func NormalizePhone(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// ValidPhone reports whether s is a Cameroonian mobile number after
// whitespace stripping.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(NormalizePhone(s))
}
