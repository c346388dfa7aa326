// Package storage persists crawl results as a single JSON file.
//
// The file is an object mapping "MM-DD" keys to year-sorted event arrays,
// indented with four spaces, with non-ASCII text and HTML characters written
// literally. Saving always overwrites the previous file. The default location
// is historical_events.json in the working directory.
package storage
