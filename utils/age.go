package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the format of a date-of-birth field
const DateLayout = "2006-01-02"

// MinimumAge is the youngest a candidate may be
const MinimumAge = 18

// ParseDateOfBirth parses a YYYY-MM-DD date
func ParseDateOfBirth(value string) (time.Time, error) {
	dob, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date of birth %q: %w", value, err)
	}
	return dob, nil
}

// AgeOn returns the age in whole years of someone born on birth, as of
// today. Only calendar fields are compared, so time zones and clock times
// play no part.
func AgeOn(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age
}

// IsAdult reports whether someone born on birth is at least MinimumAge
func IsAdult(birth, today time.Time) bool {
	return AgeOn(birth, today) >= MinimumAge
}
