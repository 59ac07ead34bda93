// Package comicdata provides a public Go API for turning comic metadata CSV
// files into JavaScript data literals and splicing them into userscripts.
//
// Basic usage:
//
//	result, err := comicdata.Generate(ctx, "generator_stuff/housepets_comics.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	script := comicdata.SpliceTemplate(template, result.Literal)
//
// With options:
//
//	result, err := comicdata.Generate(ctx, "comics.csv",
//	    comicdata.WithArcColumn("arc"),
//	    comicdata.WithVariable("arcData"),
//	)
package comicdata

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/vainstains/comicdata/internal/dataset"
	"github.com/vainstains/comicdata/internal/splice"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Option configures Generate.
// Use the With* functions to create Options.
type Option func(*options)

type options struct {
	arcColumn string
	variable  string
	logger    *slog.Logger
}

// WithArcColumn sets the column holding the numeric arc identifier.
func WithArcColumn(name string) Option { return func(o *options) { o.arcColumn = name } }

// WithVariable sets the JavaScript identifier the array is assigned to.
func WithVariable(name string) Option { return func(o *options) { o.variable = name } }

// WithLogger sets a logger for debug output. Output is discarded by default.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// Result is a generated dataset.
type Result struct {
	// Literal is the `const comicData = [...];` statement.
	Literal string

	// Records is the number of rows serialized.
	Records int

	// Columns is the CSV header in order.
	Columns []string

	// ArcFallbacks counts arc values written as -1.
	ArcFallbacks int
}

// Generate reads the CSV file at csvPath and renders it as a data literal.
func Generate(ctx context.Context, csvPath string, opts ...Option) (*Result, error) {
	if csvPath == "" {
		return nil, errors.New("csv path must not be empty")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	dopts := dataset.DefaultOptions()
	dopts.Logger = discardLogger()

	if o.arcColumn != "" {
		dopts.ArcColumn = o.arcColumn
	}

	if o.variable != "" {
		dopts.Variable = o.variable
	}

	if o.logger != nil {
		dopts.Logger = o.logger
	}

	ds, err := dataset.SerializeFile(ctx, csvPath, dopts)
	if err != nil {
		return nil, err
	}

	return &Result{
		Literal:      ds.Literal,
		Records:      ds.Records,
		Columns:      ds.Columns,
		ArcFallbacks: ds.ArcFallbacks,
	}, nil
}

// SpliceTemplate replaces the // <COMIC_DATA> ... // </COMIC_DATA> region
// of template with literal. A template without the region is returned
// unchanged.
func SpliceTemplate(template, literal string) string {
	out, _ := splice.Splice(template, literal, splice.DefaultMarkers())
	return out
}
