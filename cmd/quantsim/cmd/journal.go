package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratlab/quantsim/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded runs from a SQLite journal",
	Long: `Query and display trade journal records from a SQLite database.

Subcommands:
  runs    - List recorded run ids, most recent first
  trades  - List a run's trades in exit order
  equity  - Print a run's equity curve

Examples:
  quantsim journal runs --db runs.sqlite
  quantsim journal trades <run-id> --db runs.sqlite
  quantsim journal equity <run-id> --db runs.sqlite`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded run ids",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades <run-id>",
	Short: "List a run's trades",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrades,
}

var journalEquityCmd = &cobra.Command{
	Use:   "equity <run-id>",
	Short: "Print a run's equity curve",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalEquity,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalEquityCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./quantsim.sqlite", "path to SQLite journal DB")
}

func openJournal() (*journal.SQLiteJournal, error) {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	for _, id := range runs {
		fmt.Println(id)
	}
	return nil
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	trades, err := j.ListTradesByRun(args[0])
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		fmt.Printf("No trades for run %s\n", args[0])
		return nil
	}

	var total float64
	fmt.Printf("%-28s %-6s %6s %10s %10s %10s  %s\n",
		"EXIT TIME", "SYMBOL", "QTY", "ENTRY", "EXIT", "PROFIT", "REASON")
	for _, t := range trades {
		total += t.Profit
		fmt.Printf("%-28s %-6s %6d %10.2f %10.2f %10.2f  %s\n",
			t.ExitTime.Format("2006-01-02 15:04:05"),
			t.Symbol, t.Qty, t.EntryPrice, t.ExitPrice, t.Profit, t.Reason)
	}
	fmt.Printf("\n%d trades, total profit $%.2f\n", len(trades), total)
	return nil
}

func runJournalEquity(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	points, err := j.ListEquityByRun(args[0])
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Printf("No equity points for run %s\n", args[0])
		return nil
	}
	for _, p := range points {
		fmt.Printf("%s  %12.2f\n", p.Time.Format("2006-01-02 15:04:05"), p.Equity)
	}
	return nil
}
