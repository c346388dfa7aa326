package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/history-events/internal/event"
)

// DefaultPath is where crawl results are written unless told otherwise.
const DefaultPath = "historical_events.json"

// Indent is the per-level indentation of the saved document.
const Indent = "    "

// expandPath expands a leading ~/ to the user's home directory
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return path, nil
}

// Encode renders a ResultSet as the saved document format
func Encode(results *event.ResultSet) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)

	if err := enc.Encode(results); err != nil {
		return nil, fmt.Errorf("encoding results: %w", err)
	}
	return unescapeLineSeparators(buf.Bytes()), nil
}

// unescapeLineSeparators writes U+2028 and U+2029 literally. encoding/json
// always escapes them, even with HTML escaping off.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		// Backslashes only occur as escape pairs, so data[i] always starts one.
		if seq := data[i:]; len(seq) >= 6 && seq[1] == 'u' && (string(seq[2:6]) == "2028" || string(seq[2:6]) == "2029") {
			if seq[5] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

// Save writes results to path, replacing any existing file.
// Missing parent directories are created.
func Save(path string, results *event.ResultSet) error {
	path, err := expandPath(path)
	if err != nil {
		return err
	}

	data, err := Encode(results)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}

	return nil
}

// Load reads results previously written by Save, keeping their key order
func Load(path string) (*event.ResultSet, error) {
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results: %w", err)
	}

	results := event.NewResultSet()
	if err := json.Unmarshal(data, results); err != nil {
		return nil, fmt.Errorf("parsing results: %w", err)
	}

	return results, nil
}
