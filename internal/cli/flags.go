package cli

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vainstains/comicdata/internal/config"
	"github.com/vainstains/comicdata/internal/dataset"
	"github.com/vainstains/comicdata/internal/pipeline"
	"github.com/vainstains/comicdata/internal/splice"
)

// Flag values are read back through config.Load, which binds them by name,
// so the flags here carry defaults only.

// registerDatasetFlags adds the CSV and dataset file flags to a cobra command.
func registerDatasetFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("csv", config.DefaultCSV, "comic metadata CSV file")
	f.String("output-dir", config.DefaultOutputDir, "directory for the generated dataset file")
	f.String("output-file", config.DefaultOutputFile, "name of the generated dataset file")
	f.String("arc-column", config.DefaultArcColumn, "column holding the numeric arc identifier")
	f.String("variable", config.DefaultVariable, "JavaScript identifier the data is assigned to")

	registerDatasetCompletions(cmd)
}

// registerSpliceFlags adds the template splicing flags to a cobra command.
func registerSpliceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("template-dir", config.DefaultTemplateDir, "directory of userscript templates")
	f.String("splice-dir", config.DefaultSpliceDir, "directory the spliced userscripts are written to")
	f.String("marker", config.DefaultMarker, "tag of the // <TAG> ... // </TAG> region markers")
	f.String("bump", config.BumpNone, "increment the userscript @version on every write: none, patch, minor, major")

	registerSpliceCompletions(cmd)
}

// datasetOptions maps the configuration onto the serializer options.
func datasetOptions(cfg *config.Config, logger *slog.Logger) dataset.Options {
	opts := dataset.DefaultOptions()
	opts.ArcColumn = cfg.ArcColumn
	opts.Variable = cfg.Variable
	opts.Logger = logger

	return opts
}

// pipelineOptions maps the configuration onto a pipeline run.
func pipelineOptions(cfg *config.Config, logger *slog.Logger, withSplice bool) pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.CSV = cfg.CSV
	opts.OutputDir = cfg.OutputDir
	opts.OutputFile = cfg.OutputFile
	opts.Splice = withSplice
	opts.Dataset = datasetOptions(cfg, logger)
	opts.Logger = logger

	opts.SpliceOptions = splice.DefaultOptions()
	opts.SpliceOptions.TemplateDir = cfg.TemplateDir
	opts.SpliceOptions.OutputDir = cfg.SpliceDir
	opts.SpliceOptions.Markers = splice.MarkersFor(cfg.Marker)
	opts.SpliceOptions.Bump = cfg.Bump
	opts.SpliceOptions.Logger = logger

	return opts
}

// dataDir is the directory the watcher observes for CSV changes.
func dataDir(cfg *config.Config) string {
	return filepath.Dir(cfg.CSV)
}
