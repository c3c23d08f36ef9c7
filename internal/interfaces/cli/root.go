// Package cli implements the tbk operator command line: schema migrations,
// manual case recalculation, and todo listings against the configured
// database.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/TimebarKeeper/internal/config"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global flags shared by every subcommand.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the tbk root command with global flags and all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:          "tbk",
		Short:        "TimebarKeeper operations CLI",
		Long:         "Operational tooling for the TimebarKeeper scheduling service: schema migrations, manual reconciliation, and todo inspection.",
		Version:      fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "configs/config.yaml", "path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newRecalcCommand(opts))
	cmd.AddCommand(newTodosCommand(opts))

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig loads the configuration for a subcommand, falling back to
// TBK_* environment variables when the config file does not exist.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if _, statErr := os.Stat(opts.ConfigPath); os.IsNotExist(statErr) {
		cfg, err = config.LoadFromEnv()
	} else {
		cfg, err = config.Load(opts.ConfigPath)
	}
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	return cfg, nil
}

// newLogger builds the CLI logger.  Console format reads better on a
// terminal regardless of the service's configured format.
func newLogger(cfg *config.Config) (logging.Logger, error) {
	return logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: "console",
	})
}

// printJSON renders v as indented JSON on w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

//Personal.AI order the ending
