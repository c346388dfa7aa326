package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/history-events/internal/config"
	"github.com/pfrederiksen/history-events/internal/crawler"
	"github.com/pfrederiksen/history-events/internal/event"
	"github.com/pfrederiksen/history-events/internal/scraper"
)

// stubFetcher returns two events on March 8th, fails on May 5th, and is empty elsewhere.
type stubFetcher struct{}

func (stubFetcher) FetchDay(ctx context.Context, month, day int) scraper.Result {
	switch {
	case month == 3 && day == 8:
		return scraper.Result{
			Month:   month,
			Day:     day,
			Outcome: scraper.OutcomeEvents,
			Events:  []event.Record{{Year: 2005, Event: "B"}, {Year: 2019, Event: "A"}},
		}
	case month == 5 && day == 5:
		return scraper.Result{Month: month, Day: day, Outcome: scraper.OutcomeFailed, StatusCode: 500, Err: errors.New("unexpected status code: 500")}
	default:
		return scraper.Result{Month: month, Day: day, Outcome: scraper.OutcomeEmpty}
	}
}

func testConfig(output string) (*config.Crawl, *config.Serve) {
	return &config.Crawl{
			OutputPath: output,
			Delay:      0,
			Pacing:     config.PacingConstant,
			LogLevel:   "error",
		}, &config.Serve{
			DataPath: output,
			BindAddr: "127.0.0.1:0",
		}
}

func withStubFetcher(t *testing.T) {
	t.Helper()
	original := newFetcher
	newFetcher = func() crawler.Fetcher { return stubFetcher{} }
	t.Cleanup(func() { newFetcher = original })
}

func TestRunCrawl(t *testing.T) {
	withStubFetcher(t)

	output := filepath.Join(t.TempDir(), "historical_events.json")
	crawlCfg, serveCfg := testConfig(output)

	var stdout bytes.Buffer
	cmd := NewRootCmd(crawlCfg, serveCfg)
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--log-level", "error"})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	var decoded map[string][]event.Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 366 {
		t.Errorf("output has %d dates, want 366", len(decoded))
	}
	if got := decoded["03-08"]; len(got) != 2 || got[0].Year != 2005 {
		t.Errorf("03-08 = %+v", got)
	}
	if got, ok := decoded["05-05"]; !ok || len(got) != 0 {
		t.Errorf("05-05 = %+v, %v; want present and empty", got, ok)
	}

	text := stdout.String()
	for _, want := range []string{
		"Fetching 01-01 ...",
		"Fetching 12-31 ...",
		"Got 2 events",
		"Request failed, status code: 500",
		"Results saved to " + output,
		"Total events: 2",
		"Dates covered: 366",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("stdout missing %q", want)
		}
	}
	if !strings.HasPrefix(strings.TrimSpace(string(data)), "{\n    \"01-01\": []") {
		t.Errorf("output should start with 01-01 indented by four spaces, got %q", string(data[:40]))
	}
}

func TestRunCrawl_InvalidPacing(t *testing.T) {
	withStubFetcher(t)

	crawlCfg, serveCfg := testConfig(filepath.Join(t.TempDir(), "out.json"))
	cmd := NewRootCmd(crawlCfg, serveCfg)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--pacing", "adaptive", "--log-level", "error"})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Execute() expected error for invalid pacing, got nil")
	}
}

func TestRunCrawl_SaveFailure(t *testing.T) {
	withStubFetcher(t)

	// The output path is an existing directory, so the write fails
	output := t.TempDir()
	crawlCfg, serveCfg := testConfig(output)
	cmd := NewRootCmd(crawlCfg, serveCfg)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--log-level", "error"})

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		t.Fatal("Execute() expected error when output cannot be written, got nil")
	}
	if !strings.Contains(err.Error(), "saving results") {
		t.Errorf("error = %v, want saving results error", err)
	}
}

func TestRunCrawl_Canceled(t *testing.T) {
	withStubFetcher(t)

	output := filepath.Join(t.TempDir(), "out.json")
	crawlCfg, serveCfg := testConfig(output)
	cmd := NewRootCmd(crawlCfg, serveCfg)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--delay", "1h", "--log-level", "error"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := cmd.ExecuteContext(ctx); err == nil {
		t.Fatal("Execute() expected error after cancellation, got nil")
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("canceled crawl should not write an output file")
	}
}

func TestRunServe_MissingFile(t *testing.T) {
	crawlCfg, serveCfg := testConfig(filepath.Join(t.TempDir(), "missing.json"))
	cmd := NewRootCmd(crawlCfg, serveCfg)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve", "--log-level", "error"})

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		t.Fatal("Execute() expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "loading events") {
		t.Errorf("error = %v, want loading events error", err)
	}
}

func TestServeCmd_InheritsLogLevel(t *testing.T) {
	crawlCfg, serveCfg := testConfig("unused.json")
	crawlCfg.LogLevel = "warn"
	cmd := NewRootCmd(crawlCfg, serveCfg)

	serve, _, err := cmd.Find([]string{"serve"})
	if err != nil {
		t.Fatalf("Find(serve) error = %v", err)
	}
	flag := serve.InheritedFlags().Lookup("log-level")
	if flag == nil {
		t.Fatal("serve has no --log-level flag")
	}
	if flag.DefValue != "warn" {
		t.Errorf("--log-level default = %q, want %q", flag.DefValue, "warn")
	}
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	crawlCfg, serveCfg := testConfig("unused.json")
	cmd := NewRootCmd(crawlCfg, serveCfg)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Execute() expected error for positional args, got nil")
	}
}
