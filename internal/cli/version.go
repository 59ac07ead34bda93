package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vainstains/comicdata/internal/version"
)

func newVersionCommand() *cobra.Command {
	var (
		jsonOutput bool
		short      bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the comicdata build version",
		Long: `Print the comicdata version, commit, build date, Go version and platform.

This is the version of the generator itself. The @version header of the
generated userscripts is managed by build --bump.`,
		Args: cobra.NoArgs,
		// version needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo()
			out := cmd.OutOrStdout()

			switch {
			case short:
				_, err := fmt.Fprintln(out, info.Version)
				return err
			case jsonOutput:
				j, err := info.JSON()
				if err != nil {
					return fmt.Errorf("encoding version info: %w", err)
				}

				_, err = fmt.Fprintln(out, j)

				return err
			}

			_, err := fmt.Fprintln(out, info.String())

			return err
		},
	}

	f := cmd.Flags()
	f.BoolVar(&jsonOutput, "json", false, "output version info as JSON")
	f.BoolVar(&short, "short", false, "print only the version number")
	cmd.MarkFlagsMutuallyExclusive("json", "short")

	return cmd
}
