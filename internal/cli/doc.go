// Package cli implements the command-line interface for history-events.
//
// The cli package provides the Cobra-based CLI. Running the root command
// crawls every date of the year from the history API and saves the results
// to a JSON file; the serve subcommand exposes a saved file over HTTP. It
// coordinates the scraper, crawler, storage, and server packages.
package cli
