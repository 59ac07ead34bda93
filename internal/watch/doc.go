// Package watch keeps generated userscripts in sync with their sources.
// It observes the CSV directory and the template directory, and re-runs
// the generation pipeline whenever a CSV file or a template changes. Each
// path may trigger at most once per throttle interval.
package watch
