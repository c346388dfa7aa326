// Package event provides the historical event model shared by the crawler,
// storage, and read API.
//
// A Record ties one event title to the year it happened. Records for a single
// calendar slot are kept sorted by year, and a ResultSet maps "MM-DD" keys to
// those sorted lists while remembering the order keys were added, so the
// persisted file reads chronologically from January to December.
package event
