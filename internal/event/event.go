package event

import (
	"sort"
)

// Record is a single historical event tied to the year it happened.
type Record struct {
	Year  int    `json:"year"`
	Event string `json:"event"`
}

// DateEvents groups the records of one date key.
type DateEvents struct {
	Date   string   `json:"date"`
	Events []Record `json:"events"`
}

// SortByYear sorts records ascending by year.
// Records sharing a year keep their original relative order.
func SortByYear(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Year < records[j].Year
	})
}

// FilterYear returns the records that happened in year, in their existing order.
func FilterYear(records []Record, year int) []Record {
	var matched []Record
	for _, r := range records {
		if r.Year == year {
			matched = append(matched, r)
		}
	}
	return matched
}
