package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pedcheck <bids_root>",
		Short: "Validate and fix PhaseEncodingDirection in DWI JSON sidecars",
		Long: `pedcheck scans a BIDS dataset for DWI JSON sidecars (sub-*/**/dwi/*.json)
and checks that each one carries a PhaseEncodingDirection of i, i-, j, j-, k or k-.

With --fix, a missing or invalid value is inferred from the sidecar's "dir" key,
or from the file name when that key is absent (PA -> j-, AP -> j, RL -> i,
LR -> i-, SI -> k, IS -> k-), and written back in place.

Settings can also come from .pedcheck.yaml in the dataset root or from
PEDCHECK_* environment variables; explicit flags win.`,
		Example: `  # Report only
  pedcheck /data/bids

  # Repair what can be inferred
  pedcheck /data/bids --fix

  # Show what --fix would change, as JSON
  pedcheck /data/bids --dry-run --format json`,
		Args:          cobra.ExactArgs(1),
		RunE:          RunCheck,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	AddCheckFlags(rootCmd.Flags())

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "table", "json", "jsonl"}, cobra.ShellCompDirectiveNoFileComp
	})

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pedcheck %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)

	return rootCmd
}
