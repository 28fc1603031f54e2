// Command limbo is the CLI driver for the entailment engine: it parses a
// basic action theory, builds a query.Driver over it, and exposes the
// command surface (assert/refute/let/sort/name/fun/query/batch/watch) as
// cobra subcommands. Grounded on cmd/nerd/main.go's rootCmd/PersistentPreRunE
// structure (global flags, lazy zap logger init, one file per command),
// narrowed to this engine's own flags and state.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"limbo/internal/config"
	"limbo/internal/logging"
)

var (
	// Global flags
	configPath string
	batPath    string
	depth      int
	global     bool
	verbose    bool
	timeout    time.Duration

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "limbo",
	Short: "A decidable epistemic situation calculus entailment engine",
	Long: `limbo decides Know<k>/G Know<k> entailment queries against a basic
action theory (a BAT file declaring sorts, names, functions, and static/box/
belief clauses), using a bounded splitting proof procedure over a finite
Herbrand universe.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		if batPath != "" {
			cfg.Engine.BATPath = batPath
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		if !cmd.Flags().Changed("timeout") {
			timeout = cfg.GetQueryTimeout()
		}
		if !cmd.Flags().Changed("k") {
			depth = cfg.Engine.DefaultDepth
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "limbo.yaml", "Path to the engine config file")
	rootCmd.PersistentFlags().StringVar(&batPath, "bat", "", "BAT file for let/sort/name/fun commands (overrides the config's engine.bat_path)")
	rootCmd.PersistentFlags().IntVar(&depth, "k", 1, "Split depth bound for entailment queries")
	rootCmd.PersistentFlags().BoolVar(&global, "global", false, "Decide G Know<k> (entailment after every action sequence up to depth k) instead of Know<k>")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Query timeout")

	rootCmd.AddCommand(assertCmd)
	rootCmd.AddCommand(refuteCmd)
	rootCmd.AddCommand(letCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(nameCmd)
	rootCmd.AddCommand(funCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
