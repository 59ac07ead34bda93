// Package pipeline runs one complete generation: CSV to dataset file and,
// optionally, the dataset spliced into every userscript template.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/vainstains/comicdata/internal/dataset"
	"github.com/vainstains/comicdata/internal/output"
	"github.com/vainstains/comicdata/internal/splice"
)

// Options configures a single run.
type Options struct {
	// CSV is the comic metadata source.
	CSV string

	// OutputDir receives the standalone dataset file. It is created if absent.
	OutputDir string

	// OutputFile is the dataset file name inside OutputDir. Empty skips
	// writing the dataset file.
	OutputFile string

	// Splice enables injecting the literal into the templates.
	Splice bool

	Dataset       dataset.Options
	SpliceOptions splice.Options

	// Logger is used for structured logging.
	Logger *slog.Logger
}

// DefaultOptions returns the conventional project layout.
func DefaultOptions() Options {
	return Options{
		CSV:           filepath.Join("generator_stuff", "housepets_comics.csv"),
		OutputDir:     "generator_output",
		OutputFile:    "comics.js",
		Splice:        true,
		Dataset:       dataset.DefaultOptions(),
		SpliceOptions: splice.DefaultOptions(),
		Logger:        slog.Default(),
	}
}

// Result describes what a run produced.
type Result struct {
	Dataset *dataset.Dataset

	// DatasetPath is where the literal was written, or empty.
	DatasetPath string

	// Report is nil when splicing was disabled or could not start.
	Report *splice.Report

	// SpliceErr holds the reason splicing could not start, such as a
	// missing template directory. The dataset file is still written.
	SpliceErr error
}

// Err returns the splice problems of the run, if any.
func (r *Result) Err() error {
	if r.SpliceErr != nil {
		return r.SpliceErr
	}

	if r.Report != nil {
		return r.Report.Err()
	}

	return nil
}

// Summary returns a one-line human-readable description of the run.
func (r *Result) Summary() string {
	s := fmt.Sprintf("%d records, %s", r.Dataset.Records, humanize.Bytes(uint64(len(r.Dataset.Literal))))

	if r.Dataset.ArcFallbacks > 0 {
		s += fmt.Sprintf(", %d arc fallback(s)", r.Dataset.ArcFallbacks)
	}

	if r.Report != nil {
		s += fmt.Sprintf(", %d template(s)", len(r.Report.Written))

		if n := len(r.Report.Failures); n > 0 {
			s += fmt.Sprintf(", %d failed", n)
		}
	}

	return s
}

// Run reads the CSV, writes the dataset file and splices the templates.
// Failing to produce the dataset aborts the run; splice problems are
// reported on the Result and leave the dataset file in place.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts.Dataset.Logger = logger
	opts.SpliceOptions.Logger = logger

	ds, err := dataset.SerializeFile(ctx, opts.CSV, opts.Dataset)
	if err != nil {
		return nil, err
	}

	result := &Result{Dataset: ds}

	if opts.OutputFile != "" {
		path := filepath.Join(opts.OutputDir, opts.OutputFile)

		w := output.NewFileWriter(path, output.WithLogger(logger))
		if err := w.Write(ds.Bytes()); err != nil {
			return nil, fmt.Errorf("writing dataset: %w", err)
		}

		result.DatasetPath = path

		logger.Info("wrote dataset",
			slog.String("path", path),
			slog.Int("records", ds.Records),
		)
	}

	if !opts.Splice {
		return result, nil
	}

	report, err := splice.SpliceDir(ctx, ds.Literal, opts.SpliceOptions)
	if err != nil {
		logger.Error("splicing templates failed", slog.String("error", err.Error()))
		result.SpliceErr = err

		return result, nil
	}

	result.Report = report

	logger.Info("spliced templates",
		slog.Int("written", len(report.Written)),
		slog.Int("unmatched", len(report.Unmatched)),
		slog.Int("failed", len(report.Failures)),
	)

	return result, nil
}
