package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vainstains/comicdata/internal/config"
	"github.com/vainstains/comicdata/internal/logging"
	"github.com/vainstains/comicdata/internal/pipeline"
)

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the dataset and splice it into every template",
		Long: `Build writes the dataset file like generate, then replaces the
marker region of every template in --template-dir and writes each result
under the template's own name to --splice-dir.

--splice-dir defaults to the current working directory, not --output-dir.

A template that cannot be read or written is reported and the remaining
templates are still processed. The command exits with code 1 when any
template failed or the template directory is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			logger := logging.Named(ctx, "build")

			result, err := pipeline.Run(ctx, pipelineOptions(cfg, logger, true))
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}

			out := cmd.OutOrStdout()

			if !cfg.Quiet {
				fmt.Fprintf(out, "wrote %s (%s)\n", result.DatasetPath, result.Summary())

				if result.Report != nil {
					for _, p := range result.Report.Written {
						fmt.Fprintf(out, "  spliced %s\n", p)
					}

					for _, p := range result.Report.Unmatched {
						fmt.Fprintf(out, "  no marker region in %s (copied unchanged)\n", p)
					}
				}
			}

			if problems := result.Err(); problems != nil {
				return &ExitError{Code: 1, Err: problems}
			}

			return nil
		},
	}

	registerDatasetFlags(cmd)
	registerSpliceFlags(cmd)

	return cmd
}
