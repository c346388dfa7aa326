package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pfrederiksen/history-events/internal/config"
	"github.com/pfrederiksen/history-events/internal/crawler"
	"github.com/pfrederiksen/history-events/internal/logger"
	"github.com/pfrederiksen/history-events/internal/scraper"
	"github.com/pfrederiksen/history-events/internal/server"
	"github.com/pfrederiksen/history-events/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagOutput   string
	flagDelay    time.Duration
	flagPacing   string
	flagVerbose  bool
	flagLogLevel string
	flagDataFile string
	flagAddr     string
)

// newFetcher builds the fetcher used by the crawl command
var newFetcher = func() crawler.Fetcher {
	return scraper.New()
}

// NewRootCmd creates the root command
func NewRootCmd(crawlCfg *config.Crawl, serveCfg *config.Serve) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history-events",
		Short: "Collect historical events for every day of the year",
		Long: `A CLI tool that fetches "on this day in history" events for all 366
calendar days, one request per day, and saves them to a single JSON file.`,
		Args:          cobra.NoArgs,
		RunE:          runCrawl,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Define flags
	cmd.Flags().StringVar(&flagOutput, "output", crawlCfg.OutputPath, "Output file for crawl results")
	cmd.Flags().DurationVar(&flagDelay, "delay", crawlCfg.Delay, "Pause between requests")
	cmd.Flags().StringVar(&flagPacing, "pacing", crawlCfg.Pacing, "Pacing strategy: constant or interval")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", crawlCfg.LogLevel, "Log level: debug, info, warn, error")

	cmd.AddCommand(newServeCmd(serveCfg))

	return cmd
}

func newServeCmd(serveCfg *config.Serve) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve saved crawl results over HTTP",
		Long: `Loads a results file written by a crawl and answers queries for a date,
today, a random event, or every event from a given year.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&flagDataFile, "file", serveCfg.DataPath, "Results file to serve")
	cmd.Flags().StringVar(&flagAddr, "addr", serveCfg.BindAddr, "Listen address")

	return cmd
}

// configureLogging installs the default structured logger on stderr
func configureLogging() {
	level := logger.ParseLevel(flagLogLevel)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))
}

// runCrawl is the main command logic
func runCrawl(cmd *cobra.Command, args []string) error {
	configureLogging()

	pacer, err := config.NewPacer(flagPacing, flagDelay)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	logger.Info("Crawl starting", logger.Fields{
		"output": flagOutput,
		"delay":  flagDelay.String(),
		"pacing": flagPacing,
	})

	c := crawler.New(newFetcher(), pacer, out)
	results, summary, err := c.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("crawling: %w", err)
	}

	if err := storage.Save(flagOutput, results); err != nil {
		return fmt.Errorf("saving results: %w", err)
	}

	logger.Info("Crawl finished", logger.Fields{
		"dates":  summary.Dates,
		"events": summary.TotalEvents,
		"failed": summary.Failed,
	})
	logger.Debug("Crawl metrics", logger.Fields(logger.GetMetricsSnapshot()))

	return WriteSummary(out, flagOutput, summary, flagVerbose)
}

func runServe(cmd *cobra.Command, args []string) error {
	configureLogging()

	results, err := storage.Load(flagDataFile)
	if err != nil {
		return fmt.Errorf("loading events: %w", err)
	}

	logger.Info("Events loaded", logger.Fields{
		"file":   flagDataFile,
		"dates":  results.Len(),
		"events": results.TotalEvents(),
	})

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %d dates on %s\n", results.Len(), flagAddr)
	return server.New(results).ListenAndServe(cmd.Context(), flagAddr)
}

// Execute runs the CLI
func Execute() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	crawlCfg, err := config.LoadCrawl()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	serveCfg, err := config.LoadServe()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(crawlCfg, serveCfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
