// Package cli provides the minisql command-line interface: a "compile"
// command for running a SQL file through the pipeline once, and a "repl"
// command for interactive use.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/omar-28-2/minisql/internal/config"
)

// Version information, set at build time via -ldflags.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

var (
	cfgFile string
	cfg     *config.Config
)

type configKey struct{}

// NewRootCmd builds the root cobra command and wires its subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "minisql",
		Short:   "minisql - a SQL compiler frontend",
		Long:    "minisql scans, parses, and semantically analyzes SQL text, reporting every lexical, syntactic, and semantic diagnostic it finds.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			var err error
			cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./minisql.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (text|json)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum diagnostics to print per stage (config value when unset; 0 prints all)")

	rootCmd.AddCommand(newCompileCmd())
	rootCmd.AddCommand(newReplCmd())

	return rootCmd
}

// Execute runs the root command, reporting any top-level failure to stderr.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the loaded config from a command's context, falling
// back to a flag-less config.Load (defaults, any minisql.yaml, MINISQL_*
// environment variables) if none was ever loaded (e.g. unit tests
// invoking a subcommand's RunE directly).
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	c, _ := config.Load("", nil)
	return c
}
