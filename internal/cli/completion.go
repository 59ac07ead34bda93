package cli

import (
	"github.com/spf13/cobra"

	"github.com/vainstains/comicdata/internal/config"
	"github.com/vainstains/comicdata/internal/inspect"
)

func newCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for comicdata.

Besides subcommands and flag names, the scripts complete the fixed
values of --bump, --format, --log-level and --log-format, offer *.csv
files for --csv and directories for --template-dir, --splice-dir and
--output-dir.

Bash:
  $ source <(comicdata completion bash)

Zsh:
  $ comicdata completion zsh > "${fpath[1]}/_comicdata"

Fish:
  $ comicdata completion fish > ~/.config/fish/completions/comicdata.fish

PowerShell:
  PS> comicdata completion powershell | Out-String | Invoke-Expression
`,
		// completion needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Args:              cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:         []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}

			return nil
		},
	}

	return cmd
}

// completeValues offers a fixed set of values for flag and no file names.
func completeValues(cmd *cobra.Command, flag string, values ...string) {
	_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
}

func registerGlobalCompletions(cmd *cobra.Command) {
	completeValues(cmd, "log-level", "debug", "info", "warn", "error")
	completeValues(cmd, "log-format", "text", "json")
}

func registerDatasetCompletions(cmd *cobra.Command) {
	_ = cmd.MarkFlagFilename("csv", "csv")
	_ = cmd.MarkFlagDirname("output-dir")
}

func registerSpliceCompletions(cmd *cobra.Command) {
	_ = cmd.MarkFlagDirname("template-dir")
	_ = cmd.MarkFlagDirname("splice-dir")
	completeValues(cmd, "bump", config.BumpNone, config.BumpPatch, config.BumpMinor, config.BumpMajor)
}

func registerInspectCompletions(cmd *cobra.Command) {
	_ = cmd.MarkFlagFilename("csv", "csv")
	completeValues(cmd, "format", inspect.FormatText, inspect.FormatJSON, inspect.FormatYAML)
}
