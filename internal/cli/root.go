// Package cli implements the tabula command.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-sif/tabula/config"
	"github.com/spf13/cobra"
)

// app holds the state shared by every command, resolved before any of them run
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
	logger     *slog.Logger
}

// Execute runs the CLI, returning the process exit code
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "tabula",
		Short:         "Load, query, transform and write tabular data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(
		newShowCmd(a),
		newSchemaCmd(a),
		newSQLCmd(a),
		newConvertCmd(a),
		newTableCmd(a),
	)
	return rootCmd
}

// configure applies precedence: flag > env > config file > default
func (a *app) configure(cmd *cobra.Command) error {
	cfg := config.Default()
	if len(a.configPath) > 0 {
		loaded, err := config.LoadFile(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cfg.Apply()
	a.cfg = cfg
	a.logger = logger
	return nil
}
