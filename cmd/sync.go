package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"screenshot-mirror/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncDryRun bool
	syncOutput string
	syncStrict bool
)

// errItemsFailed is returned under --strict when a pass recorded per-item failures.
var errItemsFailed = errors.New("some items failed and will be retried on the next pass")

// syncCmd runs a single reconciliation pass.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one reconciliation pass",
	Long: `Lists the source folder, compares it with the ledger of synced names, deletes
removed files from the mirror, uploads new ones and saves the ledger.

Per-item failures are reported and retried on the next pass; they only change
the exit status when --strict is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(syncOutput)
		if err != nil {
			return err
		}

		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p, err := buildPipeline(ctx, cfg, logg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if syncDryRun {
			plan, err := p.engine.Preview(ctx)
			if err != nil {
				return fmt.Errorf("preview failed: %w", err)
			}
			return writePlan(out, format, plan)
		}

		report, runErr := p.run(ctx)
		if report != nil {
			if err := writeReport(out, format, report); err != nil {
				logg.Warn("Failed to write report", zap.Error(err))
			}
		}
		return syncExit(report, runErr, syncStrict)
	},
}

// syncExit maps a pass result to the command error.
func syncExit(report *reconcile.Report, err error, strict bool) error {
	switch {
	case errors.Is(err, reconcile.ErrStateUnknown):
		return fmt.Errorf("mirror changed but the ledger could not be saved, the next pass will repair it: %w", err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("pass interrupted: %w", err)
	case err != nil:
		return fmt.Errorf("pass failed: %w", err)
	case strict && report != nil && report.HasFailures():
		return fmt.Errorf("%w (%d)", errItemsFailed, len(report.Failures))
	}
	return nil
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Print the plan without changing the mirror or the ledger")
	syncCmd.Flags().StringVarP(&syncOutput, "output", "o", formatText, "Output format: text, json or yaml")
	syncCmd.Flags().BoolVar(&syncStrict, "strict", false, "Exit non-zero when any item failed")
	RootCmd.AddCommand(syncCmd)
}
