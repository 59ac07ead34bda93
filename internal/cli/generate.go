package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vainstains/comicdata/internal/config"
	"github.com/vainstains/comicdata/internal/dataset"
	"github.com/vainstains/comicdata/internal/logging"
	"github.com/vainstains/comicdata/internal/output"
	"github.com/vainstains/comicdata/internal/pipeline"
)

func newGenerateCommand() *cobra.Command {
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the dataset file only",
		Long: `Generate reads the comic CSV and writes the array literal to
<output-dir>/<output-file> (generator_output/comics.js by default).
Templates are not touched; use build for that.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			logger := logging.Named(ctx, "generate")

			if toStdout {
				ds, err := dataset.SerializeFile(ctx, cfg.CSV, datasetOptions(cfg, logger))
				if err != nil {
					return &ExitError{Code: 1, Err: err}
				}

				w := output.NewStdoutWriter(cmd.OutOrStdout())
				if err := w.Write(append(ds.Bytes(), '\n')); err != nil {
					return &ExitError{Code: 1, Err: err}
				}

				return nil
			}

			result, err := pipeline.Run(ctx, pipelineOptions(cfg, logger, false))
			if err != nil {
				return &ExitError{Code: 1, Err: err}
			}

			if !cfg.Quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", result.DatasetPath, result.Summary())
			}

			return nil
		},
	}

	registerDatasetFlags(cmd)
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "print the literal instead of writing the dataset file")

	return cmd
}
