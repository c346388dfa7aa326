package event

import (
	"fmt"
	"time"
)

// DateLayout matches source dates such as "2019年03月08日" or "1949年10月1日".
// The year must be four digits; month and day may be one or two.
const DateLayout = "2006年1月2日"

// ParseDate parses a source date string using DateLayout.
// Dates that do not exist on the calendar (e.g. "2020年02月30日") are rejected,
// as is year 0000.
func ParseDate(dateText string) (time.Time, error) {
	t, err := time.Parse(DateLayout, dateText)
	if err != nil {
		return time.Time{}, err
	}
	if t.Year() < 1 {
		return time.Time{}, fmt.Errorf("year out of range in %q", dateText)
	}
	return t, nil
}

// ParseYear returns the year of a source date string.
func ParseYear(dateText string) (int, error) {
	t, err := ParseDate(dateText)
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}
