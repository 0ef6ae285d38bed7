package cli

import (
	"fmt"
	"strings"

	"github.com/pedcheck-dev/pedcheck/internal/config"
	"github.com/pedcheck-dev/pedcheck/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// AddCheckFlags registers the flags of the check run. Names map onto config
// keys with dashes turned into underscores.
func AddCheckFlags(flags *pflag.FlagSet) {
	flags.Bool("fix", false, "Auto-fix missing or invalid fields when a direction can be inferred")
	flags.Bool("dry-run", false, "Infer fixes and report them without writing any file")
	flags.StringP("format", "f", config.DefaultFormat, "Output format: text|table|json|jsonl")
	flags.BoolP("quiet", "q", false, "Only report files that are not valid")
	flags.Bool("fail-on-invalid", false, "Exit non-zero when any sidecar is not valid after the run")
	flags.StringSlice("exclude", nil, "Gitignore-style patterns to skip, in addition to .bidsignore")
	flags.String("modality", config.DefaultModality, "Directory name that holds the sidecars")
	flags.String("hint-key", config.DefaultHintKey, "Sidecar key used as the direction hint")
	flags.String("config", "", "Config file (default: <bids_root>/.pedcheck.yaml)")
	flags.BoolP("verbose", "v", false, "Verbose diagnostic logging on stderr")
}

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func ParseOutputFormat(cfg *config.Config) (report.Format, error) {
	return report.ParseFormat(cfg.Format)
}
