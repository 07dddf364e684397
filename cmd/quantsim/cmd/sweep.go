package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stratlab/quantsim/market"
	"github.com/stratlab/quantsim/sweep"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Backtest every point of a parameter grid and rank the results",
	Long: `Sweep expands the parameter grid from the config file into its cartesian
product and backtests every combination across a worker pool. Outcomes are
ranked by total profit; the best rows are printed and the full table can be
exported to CSV.

Example:
  quantsim sweep --bars data/AAPL.csv --config sweep.yaml --out results.csv`,
	RunE: runSweep,
}

var (
	swBarsPath   string
	swSymbol     string
	swConfigPath string
	swWorkers    int
	swTop        int
	swOutPath    string
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVarP(&swBarsPath, "bars", "t", "", "path to bar CSV (required)")
	sweepCmd.Flags().StringVarP(&swSymbol, "symbol", "i", "SIM", "symbol label for reporting")
	sweepCmd.Flags().StringVarP(&swConfigPath, "config", "c", "", "config file supplying the grid and base settings")
	sweepCmd.Flags().IntVarP(&swWorkers, "workers", "w", 0, "worker goroutines (0 = config value, then NumCPU)")
	sweepCmd.Flags().IntVar(&swTop, "top", 10, "how many ranked outcomes to print")
	sweepCmd.Flags().StringVarP(&swOutPath, "out", "o", "", "write the full ranked table to this CSV file")

	sweepCmd.MarkFlagRequired("bars")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(swConfigPath)
	if err != nil {
		return err
	}

	set, err := market.LoadCSV(swSymbol, swBarsPath)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	workers := swWorkers
	if workers == 0 {
		workers = cfg.Sweep.Workers
	}

	runner := &sweep.Runner{
		Workers: workers,
		Base:    simConfig(cfg),
		Params:  simParams(cfg),
		Logger:  logger(),
	}
	grid := sweep.Grid{
		FastMA:        cfg.Sweep.FastMA,
		SlowMA:        cfg.Sweep.SlowMA,
		RSIBuy:        cfg.Sweep.RSIBuy,
		RSISell:       cfg.Sweep.RSISell,
		TakeProfitPct: cfg.Sweep.TakeProfitPct,
		StopLossPct:   cfg.Sweep.StopLossPct,
	}

	fmt.Printf("Sweeping %s (%d bars)\n", swSymbol, set.Len())

	outcomes, err := runner.Run(cmd.Context(), swSymbol, set.Bars, grid)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	top := swTop
	if top > len(outcomes) {
		top = len(outcomes)
	}
	fmt.Printf("\nTop %d of %d outcomes:\n", top, len(outcomes))
	for i := 0; i < top; i++ {
		out := outcomes[i]
		if out.Err != nil {
			fmt.Printf("  %2d. %s  FAILED: %v\n", i+1, out.Point, out.Err)
			continue
		}
		fmt.Printf("  %2d. %s  profit=$%.2f dd=%.2f%% sharpe=%.3f trades=%d\n",
			i+1, out.Point, out.Summary.TotalProfit,
			out.Summary.MaxDrawdown*100, out.Summary.Sharpe, out.Summary.TradeCount)
	}

	if swOutPath != "" {
		f, err := os.Create(swOutPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", swOutPath, err)
		}
		defer f.Close()
		if err := sweep.WriteCSV(f, outcomes); err != nil {
			return fmt.Errorf("write %s: %w", swOutPath, err)
		}
		fmt.Printf("\nWrote %d outcomes to %s\n", len(outcomes), swOutPath)
	}
	return nil
}
