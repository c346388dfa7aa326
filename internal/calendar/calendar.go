// Package calendar provides the fixed day table the crawler walks.
//
// The table is a simplification rather than a real calendar: February always
// has 29 days, so a crawl covers 366 slots from "01-01" to "12-31" regardless
// of the current year.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotsPerYear is the number of (month, day) pairs in the table.
const SlotsPerYear = 366

// Day is a single (month, day) slot independent of year.
type Day struct {
	Month int
	Day   int
}

// Key returns the "MM-DD" key for the slot.
func (d Day) Key() string {
	return DateKey(d.Month, d.Day)
}

// DaysInMonth returns the number of days to visit for a month in [1,12].
// February is always 29.
func DaysInMonth(month int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		return 29
	default:
		return 31
	}
}

// DateKey formats a month and day as "MM-DD".
func DateKey(month, day int) string {
	return fmt.Sprintf("%02d-%02d", month, day)
}

// Year returns every slot in the table in chronological order.
func Year() []Day {
	days := make([]Day, 0, SlotsPerYear)
	for month := 1; month <= 12; month++ {
		for day := 1; day <= DaysInMonth(month); day++ {
			days = append(days, Day{Month: month, Day: day})
		}
	}
	return days
}

// ParseKey turns month/day strings such as "3" and "08" into a DateKey.
// It rejects values that are not numeric or fall outside the day table.
func ParseKey(month, day string) (string, error) {
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil {
		return "", fmt.Errorf("invalid month %q", month)
	}
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil {
		return "", fmt.Errorf("invalid day %q", day)
	}
	if m < 1 || m > 12 {
		return "", fmt.Errorf("month out of range: %d", m)
	}
	if d < 1 || d > DaysInMonth(m) {
		return "", fmt.Errorf("day out of range: %d", d)
	}
	return DateKey(m, d), nil
}
