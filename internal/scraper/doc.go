// Package scraper fetches "on this day" historical events for a single calendar date.
//
// Each fetch issues one GET against the history API with zero-padded month and
// day parameters, decodes the JSON body, keeps entries carrying a parseable
// "<year>年<month>月<day>日" date and a title, and returns them as year-sorted
// event records. Failures are reported as values on Result rather than errors,
// so a crawl can keep going past a bad date while callers can still tell an
// empty day from a failed request.
package scraper
