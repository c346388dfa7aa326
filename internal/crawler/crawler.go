// Package crawler walks the day table, fetching each date in turn and
// collecting the results into a single ResultSet.
package crawler

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/history-events/internal/calendar"
	"github.com/pfrederiksen/history-events/internal/event"
	"github.com/pfrederiksen/history-events/internal/logger"
	"github.com/pfrederiksen/history-events/internal/scraper"
)

// Fetcher fetches the events for one month/day.
type Fetcher interface {
	FetchDay(ctx context.Context, month, day int) scraper.Result
}

// Summary describes a finished crawl
type Summary struct {
	Dates       int
	TotalEvents int
	WithEvents  int
	Empty       int
	Failed      int
}

// Crawler fetches every date of the day table sequentially
type Crawler struct {
	fetcher Fetcher
	pacer   Pacer
	out     io.Writer
	metrics *logger.Metrics
	days    []calendar.Day
}

// New creates a Crawler that writes progress text to out.
// A nil pacer uses ConstantDelay(DefaultDelay); a nil out discards progress.
func New(fetcher Fetcher, pacer Pacer, out io.Writer) *Crawler {
	if pacer == nil {
		pacer = ConstantDelay(DefaultDelay)
	}
	if out == nil {
		out = io.Discard
	}
	return &Crawler{
		fetcher: fetcher,
		pacer:   pacer,
		out:     out,
		metrics: logger.DefaultMetrics(),
		days:    calendar.Year(),
	}
}

// Run fetches every date in order and returns the collected results.
// Per-date failures are recorded as empty days; only context cancellation
// stops the crawl early, in which case no results are returned.
func (c *Crawler) Run(ctx context.Context) (*event.ResultSet, Summary, error) {
	results := event.NewResultSet()
	var summary Summary

	for _, d := range c.days {
		key := d.Key()
		fmt.Fprintf(c.out, "\nFetching %s ...\n", key)

		start := time.Now()
		result := c.fetcher.FetchDay(ctx, d.Month, d.Day)
		c.metrics.RecordTiming("fetch.duration", time.Since(start))

		if err := ctx.Err(); err != nil {
			return nil, Summary{}, fmt.Errorf("crawl interrupted at %s: %w", key, err)
		}

		c.report(key, result)
		results.Set(key, result.Records())

		switch result.Outcome {
		case scraper.OutcomeEvents:
			summary.WithEvents++
		case scraper.OutcomeEmpty:
			summary.Empty++
		case scraper.OutcomeFailed:
			summary.Failed++
		}

		if err := c.pacer.Wait(ctx); err != nil {
			return nil, Summary{}, fmt.Errorf("crawl interrupted after %s: %w", key, err)
		}
	}

	summary.Dates = results.Len()
	summary.TotalEvents = results.TotalEvents()
	c.metrics.SetGauge("crawl.total_events", float64(summary.TotalEvents))

	return results, summary, nil
}

// report writes the progress line for one fetch and updates metrics
func (c *Crawler) report(key string, result scraper.Result) {
	switch result.Outcome {
	case scraper.OutcomeEvents:
		c.metrics.IncrCounter("fetch.events")
		fmt.Fprintf(c.out, "Got %d events\n", len(result.Events))
		logger.Debug("Fetched events", logger.Fields{
			"date":   key,
			"events": len(result.Events),
		})

	case scraper.OutcomeEmpty:
		c.metrics.IncrCounter("fetch.empty")
		fmt.Fprintf(c.out, "No events found for %d/%d\n", result.Month, result.Day)

	case scraper.OutcomeFailed:
		c.metrics.IncrCounter("fetch.failed")
		if result.StatusCode != 0 {
			fmt.Fprintf(c.out, "Request failed, status code: %d\n", result.StatusCode)
		} else {
			fmt.Fprintf(c.out, "Error fetching %d/%d: %v\n", result.Month, result.Day, result.Err)
		}
		fields := logger.Fields{"date": key}
		if result.StatusCode != 0 {
			fields["status"] = result.StatusCode
		}
		if result.Err != nil {
			fields["error"] = result.Err.Error()
		}
		logger.Warn("Fetch failed", fields)
	}
}
