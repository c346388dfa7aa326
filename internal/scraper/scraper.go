package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pfrederiksen/history-events/internal/event"
)

const (
	HistoryURL = "https://api.oick.cn/lishi/api.php"
	UserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	Timeout    = 30 * time.Second
)

// Outcome classifies a fetch
type Outcome int

const (
	// OutcomeEvents means at least one usable entry was returned.
	OutcomeEvents Outcome = iota
	// OutcomeEmpty means the request succeeded but yielded nothing usable.
	OutcomeEmpty
	// OutcomeFailed means the request or response decoding failed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEvents:
		return "events"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the outcome of fetching one date
type Result struct {
	Month      int
	Day        int
	Outcome    Outcome
	Events     []event.Record // sorted by year; only set for OutcomeEvents
	StatusCode int            // set when the server answered with a non-200 status
	Err        error          // set for OutcomeFailed
}

// Records returns the fetched records, or an empty slice for any other outcome.
func (r Result) Records() []event.Record {
	if r.Outcome != OutcomeEvents || r.Events == nil {
		return []event.Record{}
	}
	return r.Events
}

// Scraper fetches historical events from the history API
type Scraper struct {
	client *http.Client
	url    string
}

// New creates a new Scraper instance
func New() *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url: HistoryURL,
	}
}

// FetchDay fetches and normalizes the events for one month/day.
// It never returns an error; failures are reported on the Result.
func (s *Scraper) FetchDay(ctx context.Context, month, day int) Result {
	params := url.Values{}
	params.Set("month", fmt.Sprintf("%02d", month))
	params.Set("day", fmt.Sprintf("%02d", day))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url+"?"+params.Encode(), nil)
	if err != nil {
		return failed(month, day, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return failed(month, day, fmt.Errorf("fetching events: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result := failed(month, day, fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		result.StatusCode = resp.StatusCode
		return result
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failed(month, day, fmt.Errorf("reading response: %w", err))
	}

	records, err := parseRecords(body)
	if err != nil {
		return failed(month, day, fmt.Errorf("parsing response: %w", err))
	}

	if len(records) == 0 {
		return Result{Month: month, Day: day, Outcome: OutcomeEmpty}
	}

	return Result{Month: month, Day: day, Outcome: OutcomeEvents, Events: records}
}

func failed(month, day int, err error) Result {
	return Result{Month: month, Day: day, Outcome: OutcomeFailed, Err: err}
}

// parseRecords extracts year-sorted records from a response body.
// Only invalid JSON is an error; any other unexpected shape yields no records.
func parseRecords(data []byte) ([]event.Record, error) {
	var payload interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	top, ok := payload.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	entries, ok := top["result"].([]interface{})
	if !ok {
		return nil, nil
	}

	records := make([]event.Record, 0, len(entries))
	for _, item := range entries {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		dateText, ok := entry["date"].(string)
		if !ok {
			continue
		}
		title, ok := entry["title"].(string)
		if !ok {
			continue
		}

		year, err := event.ParseYear(dateText)
		if err != nil {
			continue
		}

		records = append(records, event.Record{
			Year:  year,
			Event: title,
		})
	}

	event.SortByYear(records)
	return records, nil
}
