// Package commands implements the simplearm CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-simplearm/internal/config"
	"github.com/teslashibe/go-simplearm/internal/log"
)

var logLevel string

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "simplearm",
		Short:        "Two-axis arm coordinator with clamped moves and auto-centering",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Init(logLevel)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", config.LogLevel(), "log level: debug, info, warn, error (env ARM_LOG_LEVEL)")

	root.AddCommand(serveCmd(), moveCmd(), limitsCmd())
	return root
}
