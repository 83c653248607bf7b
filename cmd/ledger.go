package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"screenshot-mirror/core/ledger"
	"screenshot-mirror/core/lock"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	ledgerOutput string
	yesConfirm   bool
)

// ledgerCmd groups ledger maintenance commands.
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect or edit the ledger of synced names",
}

var ledgerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the names recorded as synced",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(ledgerOutput)
		if err != nil {
			return err
		}
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		led, _, err := openLedger(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		names, err := ledger.Names(cmd.Context(), led)
		if err != nil {
			logg.Warn("Ledger unreadable, showing it as empty", zap.Error(err))
		}
		return writeNames(cmd.OutOrStdout(), format, names)
	},
}

var ledgerForgetCmd = &cobra.Command{
	Use:   "forget <name>...",
	Short: "Remove names from the ledger so the next pass uploads them again",
	Long: `Removes names from the ledger without touching the mirror. The next pass
treats them as new: files still on the mirror are adopted, missing ones are
uploaded again.

Examples:
  # Forget one file (with interactive confirmation)
  screenshot-mirror ledger forget map_001.png

  # Forget several files without prompting
  screenshot-mirror ledger forget a.png b.png --yes`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		led, lockPath, err := openLedger(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Forgetting %d name(s): %s\n", len(args), strings.Join(args, ", "))
		if !confirmDestructiveAction(cmd.InOrStdin(), out, yesConfirm) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}

		lk, err := lock.Acquire(lockPath)
		if err != nil {
			return err
		}
		defer func() { _ = lk.Release() }()

		removed, err := ledger.Forget(cmd.Context(), led, args)
		if err != nil {
			return fmt.Errorf("failed to update ledger: %w", err)
		}
		logg.Info("Names forgotten",
			zap.Strings("names", removed),
			zap.Int("requested", len(args)),
			zap.String("lock", lk.Path()),
		)
		fmt.Fprintf(out, "Forgot %d of %d name(s)\n", len(removed), len(args))
		return nil
	},
}

// confirmDestructiveAction asks for a literal "yes" on in unless yes is set.
func confirmDestructiveAction(in io.Reader, out io.Writer, yes bool) bool {
	if yes {
		fmt.Fprintln(out, "Auto-confirmed via --yes flag")
		return true
	}

	fmt.Fprint(out, "Type 'yes' to confirm: ")
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}

func init() {
	ledgerShowCmd.Flags().StringVarP(&ledgerOutput, "output", "o", formatText, "Output format: text, json or yaml")
	ledgerForgetCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Skip the confirmation prompt")

	ledgerCmd.AddCommand(ledgerShowCmd, ledgerForgetCmd)
	RootCmd.AddCommand(ledgerCmd)
}
