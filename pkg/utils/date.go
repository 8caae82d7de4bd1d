package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDate parses an optional yyyy-mm-dd query value. An empty string yields
// the zero time, not an error.
func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// ResolveTargetMonth resolves a target-date string to a calendar (year,
// month). Accepted formats: "2006-01-02", "2006-01", a bare month number
// ("12"), or a Korean month label ("12월").
//
// The rollover rule for month-only values: a month earlier than the current
// month belongs to next year, a month at or after the current month belongs
// to this year. Values carrying their own year never roll over.
func ResolveTargetMonth(target string, now time.Time) (int, time.Month, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return 0, 0, fmt.Errorf("empty target date")
	}

	if date, err := time.Parse(time.DateOnly, target); err == nil {
		return date.Year(), date.Month(), nil
	}
	if date, err := time.Parse("2006-01", target); err == nil {
		return date.Year(), date.Month(), nil
	}

	monthStr := strings.TrimSuffix(target, "월")
	monthNum, err := strconv.Atoi(monthStr)
	if err != nil || monthNum < 1 || monthNum > 12 {
		return 0, 0, fmt.Errorf("unparseable target date %q", target)
	}

	year := now.Year()
	if time.Month(monthNum) < now.Month() {
		year++
	}
	return year, time.Month(monthNum), nil
}
