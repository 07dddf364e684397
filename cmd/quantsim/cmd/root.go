package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stratlab/quantsim/config"
)

var rootCmd = &cobra.Command{
	Use:   "quantsim",
	Short: "An event-driven equity backtesting and strategy research tool",
	Long: `Quantsim replays daily or intraday bar data through an event-driven
simulation engine and reports how a signal-driven strategy would have traded.

It provides tools for:
  - Backtesting with moving-average, MACD, RSI and panic-rebound signals
  - Take-profit, stop-loss and holding-period exit rules per position
  - Slippage and commission aware fills with integer share sizing
  - Parameter sweeps across a worker pool, ranked by total profit
  - Trade journaling to CSV or SQLite with per-run equity curves`,
}

var verbose bool

// Execute runs the CLI. A .env file in the working directory is honored
// before any command reads its configuration.
func Execute() error {
	config.LoadEnv()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// logger returns the diagnostics logger for a command invocation. Quiet runs
// log nothing so command output stays clean.
func logger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
