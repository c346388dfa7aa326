package cli

import (
	"fmt"
	"io"

	"github.com/pfrederiksen/history-events/internal/crawler"
)

// WriteSummary prints the end-of-crawl report
func WriteSummary(w io.Writer, path string, summary crawler.Summary, verbose bool) error {
	lines := []string{
		fmt.Sprintf("\nCrawl complete! Results saved to %s", path),
		fmt.Sprintf("Total events: %d", summary.TotalEvents),
		fmt.Sprintf("Dates covered: %d", summary.Dates),
	}

	if verbose {
		lines = append(lines,
			fmt.Sprintf("  with events: %d", summary.WithEvents),
			fmt.Sprintf("  empty:       %d", summary.Empty),
			fmt.Sprintf("  failed:      %d", summary.Failed),
		)
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	return nil
}
