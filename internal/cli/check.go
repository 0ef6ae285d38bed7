package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/pedcheck-dev/pedcheck/internal/config"
	"github.com/pedcheck-dev/pedcheck/internal/discover"
	"github.com/pedcheck-dev/pedcheck/internal/logging"
	"github.com/pedcheck-dev/pedcheck/internal/report"
	"github.com/pedcheck-dev/pedcheck/internal/sidecar"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrInvalidSidecars is returned with --fail-on-invalid when any file ends
// the run without a valid field.
var ErrInvalidSidecars = errors.New("sidecars with invalid PhaseEncodingDirection remain")

func RunCheck(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one dataset root, got %d", len(args))
	}
	root := filepath.Clean(args[0])

	cfgFile, err := OptionalStringFlag(cmd, "config")
	if err != nil {
		return err
	}
	cfg, err := config.Load(root, cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()
	if cfg.FileUsed != "" {
		logger.Debug("using config file", zap.String("path", cfg.FileUsed))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	summary, err := CheckDataset(ctx, root, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if cfg.FailOnInvalid && !summary.AllValid() {
		return fmt.Errorf("%w: %d of %d not valid", ErrInvalidSidecars, summary.Total-summary.Valid, summary.Total)
	}
	return nil
}

// CheckDataset discovers the sidecars under root, checks them one at a time
// and reports each result followed by the summary. Finding no sidecars is an
// error wrapping discover.ErrNoSidecars; invalid files are not.
func CheckDataset(ctx context.Context, root string, cfg *config.Config, stdout, stderr io.Writer) (report.RunSummary, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	format, err := ParseOutputFormat(cfg)
	if err != nil {
		return report.RunSummary{}, err
	}

	paths, err := discover.Find(root, discover.Options{
		Modality: cfg.Modality,
		Excludes: cfg.Exclude,
		Logger:   logger,
	})
	if err != nil {
		return report.RunSummary{}, err
	}
	logger.Debug("checking sidecars", zap.Int("files", len(paths)), zap.Bool("fix", cfg.Fixing()), zap.Bool("dry_run", cfg.DryRun))

	reporter := report.NewReporter(stdout, report.Options{
		Format: format,
		Quiet:  cfg.Quiet,
		Fix:    cfg.Fixing(),
		DryRun: cfg.DryRun,
	})
	progress := newCheckProgressReporter(stderr, "checking", len(paths), isTerminal(stderr) && !format.Streaming())
	opts := sidecar.Options{
		Fix:     cfg.Fixing(),
		DryRun:  cfg.DryRun,
		HintKey: cfg.HintKey,
		Logger:  logger,
	}
	summary := report.RunSummary{
		Mode:     report.Mode(cfg.Fix, cfg.DryRun),
		RootPath: root,
		Pattern:  discover.SidecarPattern(cfg.Modality),
	}

	reporter.Begin(len(paths), root, cfg.Modality)
	for i, path := range paths {
		progress.Update(path, i+1)
		res := sidecar.Check(path, opts)
		summary.Add(res)
		if res.Outcome == sidecar.OutcomeParseError {
			logger.Debug("unreadable sidecar", zap.String("path", path), zap.String("error", res.Error))
		}
		if err := reporter.File(res); err != nil {
			return summary, fmt.Errorf("failed to write report: %w", err)
		}
	}
	progress.Done(len(paths))

	summary.DurationMS = time.Since(start).Milliseconds()
	if err := reporter.End(summary); err != nil {
		return summary, fmt.Errorf("failed to write report: %w", err)
	}
	return summary, nil
}
