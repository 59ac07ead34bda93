package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vainstains/comicdata/internal/config"
	"github.com/vainstains/comicdata/internal/dataset"
	"github.com/vainstains/comicdata/internal/inspect"
)

func newInspectCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect [csv]",
		Short: "Summarise a comic CSV without generating anything",
		Long: `Inspect parses the CSV (the configured --csv when no argument is
given) and reports its columns and how their values will be encoded:
empty values, digit-only values passed through as-is, values whose
double quotes will be escaped, and records whose arc value cannot be
parsed and will be written as -1.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())

			path := cfg.CSV
			if len(args) == 1 {
				path = args[0]
			}

			switch format {
			case inspect.FormatText, inspect.FormatJSON, inspect.FormatYAML:
			default:
				return &ExitError{Code: 2, Err: fmt.Errorf("unknown format %q: expected text, json, yaml", format)}
			}

			f, err := os.Open(path) //nolint:gosec // path is user-supplied by design
			if err != nil {
				return &ExitError{Code: 1, Err: fmt.Errorf("opening csv %s: %w", path, err)}
			}
			defer f.Close()

			rows, err := dataset.ReadRows(f)
			if err != nil {
				return &ExitError{Code: 1, Err: fmt.Errorf("parsing csv %s: %w", path, err)}
			}

			opts := dataset.DefaultOptions()
			opts.ArcColumn = cfg.ArcColumn

			return inspect.Render(cmd.OutOrStdout(), inspect.Summarize(rows, opts), format)
		},
	}

	f := cmd.Flags()
	f.String("csv", config.DefaultCSV, "comic metadata CSV file")
	f.String("arc-column", config.DefaultArcColumn, "column holding the numeric arc identifier")
	f.StringVar(&format, "format", inspect.FormatText, "output format: text, json, yaml")
	registerInspectCompletions(cmd)

	return cmd
}
