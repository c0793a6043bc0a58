// StripCut: LED strip cut and power supply planner.
//
// Cuts ordered strip lengths from stock reels with first-fit decreasing,
// then sizes power supplies for the cut pieces from a capacity catalog.
//
// Build:
//   go build -o stripcut ./cmd/stripcut
//
// Examples:
//   stripcut plan --roll 5 --order kitchen=2.4x2 --order hall=1.5 --catalog 30,60,100
//   stripcut plan --file orders.csv --strategy one-per-piece --xlsx plan.xlsx --pdf plan.pdf
//   stripcut compare 2.5 2.5 1.2 0.8
//   stripcut serve --addr :8080

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/piwi3910/StripCut/internal/project"
)

// globals holds the persistent flags and the config loaded from them.
type globals struct {
	configPath string
	logLevel   string

	cfg model.AppConfig
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "stripcut",
		Short: "LED strip cut optimizer and power supply planner",
		Long: `stripcut cuts ordered LED strip lengths from stock reels with first-fit
decreasing and sizes power supplies for the cut pieces, either one supply per
piece or grouped onto shared supplies.

Defaults come from ~/.stripcut/config.json; run "stripcut config init" to
create it. Command-line flags override the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", project.DefaultConfigPath(), "path to the config file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error (default from config)")

	root.AddCommand(
		newPlanCmd(g),
		newCompareCmd(g),
		newServeCmd(g),
		newConfigCmd(g),
		newInventoryCmd(),
	)
	return root
}

// load reads the config file and installs the default logger.
func (g *globals) load(cmd *cobra.Command) error {
	cfg, err := project.LoadAppConfig(g.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	g.cfg = cfg

	level := cfg.LogLevel
	if cmd.Flags().Changed("log-level") {
		level = g.logLevel
	}
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
