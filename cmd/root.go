package cmd

import (
	"fmt"
	"os"

	"screenshot-mirror/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configDir is where config.yaml and .env are looked up.
var configDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "screenshot-mirror",
	Short: "Mirror a cloud drive folder into a GitHub repository",
	Long: `screenshot-mirror keeps a folder of a GitHub repository (or a bucket prefix)
in step with a Google Drive folder: new files are uploaded, removed files are
deleted, and a ledger of synced names makes repeated runs cheap and safe.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with status 1 on error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Debug level selects the development encoder with readable timestamps.
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding config.yaml and .env")
}
