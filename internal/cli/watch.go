package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vainstains/comicdata/internal/config"
	"github.com/vainstains/comicdata/internal/logging"
	"github.com/vainstains/comicdata/internal/pipeline"
	"github.com/vainstains/comicdata/internal/watch"
)

func newWatchCommand() *cobra.Command {
	var noInitial bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the userscripts whenever the CSV or a template changes",
		Long: `Watch observes the directory of --csv and --template-dir (not
recursively) and re-runs build whenever a .csv file, or a .js file inside
the template directory, is written.

A path that has just triggered a rebuild is ignored for --debounce.
Each rebuild prints a timestamped status line. Failed rebuilds are
reported and the watcher keeps running until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), cmd, noInitial)
		},
	}

	registerDatasetFlags(cmd)
	registerSpliceFlags(cmd)

	f := cmd.Flags()
	f.Duration("debounce", config.DefaultDebounce, "minimum interval between rebuilds triggered by the same file")
	f.BoolVar(&noInitial, "no-initial", false, "wait for the first change instead of building on startup")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, noInitial bool) error {
	cfg := config.FromContext(ctx)
	logger := logging.Named(ctx, "watch")

	runFn := func(fnCtx context.Context) (*watch.RunResult, error) {
		result, err := pipeline.Run(fnCtx, pipelineOptions(cfg, logger, true))
		if err != nil {
			return nil, err
		}

		return &watch.RunResult{
			Summary:  result.Summary(),
			Problems: result.Err(),
		}, nil
	}

	opts := watch.DefaultOptions()
	opts.DataDir = dataDir(cfg)
	opts.TemplateDir = cfg.TemplateDir
	opts.Interval = cfg.Debounce
	opts.InitialRun = !noInitial
	opts.Logger = logger
	opts.Out = cmd.OutOrStdout()

	if err := watch.New(opts, runFn).Run(ctx); err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	return nil
}
