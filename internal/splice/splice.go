package splice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vainstains/comicdata/internal/output"
)

// ErrTemplateDirNotFound is returned by SpliceDir when the template
// directory does not exist.
var ErrTemplateDirNotFound = errors.New("template directory not found")

// Markers are the literal lines that bound the replaceable region.
type Markers struct {
	Start string
	End   string
}

// DefaultMarkers returns the markers used by the comic userscripts.
func DefaultMarkers() Markers {
	return MarkersFor("COMIC_DATA")
}

// MarkersFor returns the `// <TAG>` and `// </TAG>` marker pair.
func MarkersFor(tag string) Markers {
	return Markers{
		Start: "// <" + tag + ">",
		End:   "// </" + tag + ">",
	}
}

func (m Markers) pattern() *regexp.Regexp {
	return regexp.MustCompile(`(?s)` + regexp.QuoteMeta(m.Start) + `.*?` + regexp.QuoteMeta(m.End))
}

// Splice replaces every marker region in doc with the markers wrapped
// around literal and returns the new document and the number of regions
// replaced. The literal is inserted verbatim; `$` is not expanded.
func Splice(doc, literal string, m Markers) (string, int) {
	replacement := m.Start + "\n" + literal + "\n" + m.End
	count := 0

	out := m.pattern().ReplaceAllStringFunc(doc, func(string) string {
		count++
		return replacement
	})

	return out, count
}

// Options configures SpliceDir.
type Options struct {
	// TemplateDir holds the template documents. It is not walked recursively.
	TemplateDir string

	// OutputDir receives the spliced documents under their template names.
	// It defaults to the process working directory.
	OutputDir string

	// Ext selects which files in TemplateDir are templates.
	Ext string

	// Markers bound the replaceable region.
	Markers Markers

	// Bump is the @version component to increment on every write:
	// none, patch, minor or major.
	Bump string

	// Logger is used for structured logging.
	Logger *slog.Logger
}

// DefaultOptions returns the conventional template layout.
func DefaultOptions() Options {
	return Options{
		TemplateDir: "userscripts_base",
		OutputDir:   ".",
		Ext:         ".js",
		Markers:     DefaultMarkers(),
		Bump:        BumpNone,
		Logger:      slog.Default(),
	}
}

// FileError records a template that could not be processed.
type FileError struct {
	Template string
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Template, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Report summarises a SpliceDir run.
type Report struct {
	// Written lists the output paths that were written, in template order.
	Written []string

	// Unmatched lists templates that had no marker region and were copied
	// through unchanged.
	Unmatched []string

	// Failures holds the templates that could not be read or written.
	Failures []*FileError
}

// Err joins all per-file failures, or returns nil.
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}

	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}

	return errors.Join(errs...)
}

// SpliceDir splices literal into every template in opts.TemplateDir and
// writes the results to opts.OutputDir. A failing template is recorded in
// the report and does not stop the others.
func SpliceDir(ctx context.Context, literal string, opts Options) (*Report, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Markers == (Markers{}) {
		opts.Markers = DefaultMarkers()
	}

	entries, err := os.ReadDir(opts.TemplateDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateDirNotFound, opts.TemplateDir)
		}

		return nil, fmt.Errorf("reading template directory %s: %w", opts.TemplateDir, err)
	}

	report := &Report{}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, opts.Ext) {
			continue
		}

		src := filepath.Join(opts.TemplateDir, name)
		dst := filepath.Join(opts.OutputDir, name)

		matched, err := spliceFile(src, dst, literal, opts)
		if err != nil {
			opts.Logger.Error("splicing template failed",
				slog.String("template", src),
				slog.String("error", err.Error()),
			)

			report.Failures = append(report.Failures, &FileError{Template: src, Err: err})

			continue
		}

		if !matched {
			report.Unmatched = append(report.Unmatched, src)
		}

		report.Written = append(report.Written, dst)
	}

	return report, nil
}

func spliceFile(src, dst, literal string, opts Options) (bool, error) {
	raw, err := os.ReadFile(src) //nolint:gosec // template paths come from the configured directory
	if err != nil {
		return false, fmt.Errorf("reading template: %w", err)
	}

	doc, count := Splice(string(raw), literal, opts.Markers)

	switch {
	case count == 0:
		opts.Logger.Warn("template has no marker region", slog.String("template", src))
	case count > 1:
		opts.Logger.Warn("template has more than one marker region",
			slog.String("template", src),
			slog.Int("regions", count),
		)
	}

	if opts.Bump != "" && opts.Bump != BumpNone {
		bumped, version, bumpErr := BumpVersion(doc, opts.Bump)
		if bumpErr != nil {
			return false, bumpErr
		}

		if version != "" {
			opts.Logger.Debug("bumped userscript version",
				slog.String("template", src),
				slog.String("version", version),
			)
		}

		doc = bumped
	}

	w := output.NewFileWriter(dst, output.WithLogger(opts.Logger))
	if err := w.Write([]byte(doc)); err != nil {
		return false, err
	}

	opts.Logger.Debug("spliced template",
		slog.String("template", src),
		slog.String("output", dst),
		slog.Int("regions", count),
	)

	return count > 0, nil
}
