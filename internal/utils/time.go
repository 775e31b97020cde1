package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitlog/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// TodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
func TodayInTimezone(timezone string) (string, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc).Format(constants.DateFormat), nil
}

// ValidateDate checks that s is a calendar date in YYYY-MM-DD format.
func ValidateDate(s string) error {
	if _, err := time.Parse(constants.DateFormat, s); err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return nil
}

// DateOrToday returns s when set and valid, otherwise today in the timezone.
func DateOrToday(s, timezone string) (string, error) {
	if s == "" {
		return TodayInTimezone(timezone)
	}
	if err := ValidateDate(s); err != nil {
		return "", err
	}
	return s, nil
}
