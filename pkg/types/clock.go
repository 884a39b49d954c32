package types

import (
	"fmt"
	"strings"
)

// To24Hour переводит время из 12-часового формата ("02:30 PM", "9:05am") в "HH:MM".
// Строка без суффикса AM/PM считается уже 24-часовой и только нормализуется,
// поэтому To24Hour(To24Hour(s)) == To24Hour(s).
func To24Hour(s string) (TimeString, error) {
	trimmed := strings.TrimSpace(s)
	upper := strings.ToUpper(trimmed)

	var meridiem string
	switch {
	case strings.HasSuffix(upper, "AM"):
		meridiem = "AM"
	case strings.HasSuffix(upper, "PM"):
		meridiem = "PM"
	default:
		return NewTimeStringFromString(trimmed)
	}

	clock := strings.TrimSpace(upper[:len(upper)-2])
	parts := strings.Split(clock, ":")
	if len(parts) != 2 || len(parts[1]) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	hour, ok := parseDigits(parts[0], 1, 2)
	if !ok || hour < 1 || hour > 12 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	minute, ok := parseDigits(parts[1], 2, 2)
	if !ok || minute > 59 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	// 12 AM = 00, 12 PM = 12
	hour %= 12
	if meridiem == "PM" {
		hour += 12
	}

	return NewTimeStringFromMinutes(hour*60 + minute)
}
