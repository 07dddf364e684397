package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stratlab/quantsim/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage configuration files for backtests and sweeps.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  quantsim config init --output quantsim.yaml
  quantsim config validate --file quantsim.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "quantsim.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  quantsim backtest --bars data.csv --config %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Capital: $%.2f (%.0f%% per trade, cap $%.2f)\n",
		cfg.Account.InitialCapital, cfg.Account.AllocationFraction*100, cfg.Account.MaxPerTradeCap)
	fmt.Printf("  Risk: tp=%.1f%% sl=%.1f%% max-hold=%d bars\n",
		cfg.Risk.TakeProfitPct*100, cfg.Risk.StopLossPct*100, cfg.Risk.MaxHoldingBars)
	fmt.Printf("  Signals: %s\n", strings.Join(cfg.Signals.Enabled, ", "))
	fmt.Printf("  Journal: %s\n", journalLabel(cfg.Journal))
	return nil
}

func journalLabel(j config.JournalConfig) string {
	switch j.Type {
	case "", "none":
		return "none"
	case "csv":
		return fmt.Sprintf("csv (%s, %s)", j.TradesFile, j.EquityFile)
	case "sqlite":
		return fmt.Sprintf("sqlite (%s)", j.DBPath)
	}
	return j.Type
}
