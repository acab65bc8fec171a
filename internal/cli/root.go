// Package cli implements skillctl, the operator tool for the Skillmates backend.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"skillmates-backend/pkg/logger"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:          "skillctl",
		Short:        "Skillmates operator tool",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.Init(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(hashPasswordCmd())
	cmd.AddCommand(searchCmd())
	return cmd
}
