package event

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ResultSet maps "MM-DD" date keys to their records.
// Keys iterate, and encode to JSON, in the order they were first set.
// A ResultSet is not safe for concurrent mutation.
type ResultSet struct {
	keys []string
	days map[string][]Record
}

// NewResultSet creates an empty ResultSet
func NewResultSet() *ResultSet {
	return &ResultSet{
		days: make(map[string][]Record),
	}
}

// Set stores the records for a date key. Setting an existing key replaces its
// records without moving it. A nil slice is stored as empty.
func (rs *ResultSet) Set(key string, records []Record) {
	if records == nil {
		records = []Record{}
	}
	if _, exists := rs.days[key]; !exists {
		rs.keys = append(rs.keys, key)
	}
	rs.days[key] = records
}

// Get returns the records for a date key and whether the key exists.
func (rs *ResultSet) Get(key string) ([]Record, bool) {
	records, ok := rs.days[key]
	return records, ok
}

// Keys returns the date keys in insertion order.
func (rs *ResultSet) Keys() []string {
	keys := make([]string, len(rs.keys))
	copy(keys, rs.keys)
	return keys
}

// Len returns the number of date keys.
func (rs *ResultSet) Len() int {
	return len(rs.keys)
}

// TotalEvents returns the number of records across all date keys.
func (rs *ResultSet) TotalEvents() int {
	total := 0
	for _, records := range rs.days {
		total += len(records)
	}
	return total
}

// FindYear returns, in key order, every date that has records from year.
func (rs *ResultSet) FindYear(year int) []DateEvents {
	var results []DateEvents
	for _, key := range rs.keys {
		if matched := FilterYear(rs.days[key], year); len(matched) > 0 {
			results = append(results, DateEvents{Date: key, Events: matched})
		}
	}
	return results
}

// MarshalJSON encodes the set as an object in insertion order.
// HTML characters are left unescaped.
func (rs *ResultSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range rs.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeValue(&buf, rs.days[key]); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of date keys, keeping the document's key order.
func (rs *ResultSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	decoded := NewResultSet()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected date key, got %v", tok)
		}

		var records []Record
		if err := dec.Decode(&records); err != nil {
			return fmt.Errorf("decoding %s: %w", key, err)
		}
		decoded.Set(key, records)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*rs = *decoded
	return nil
}

// writeValue appends the JSON encoding of v without HTML escaping.
func writeValue(buf *bytes.Buffer, v interface{}) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates each value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}
