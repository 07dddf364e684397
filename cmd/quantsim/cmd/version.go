package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/stratlab/quantsim/strategies"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("quantsim version %s\n", version)
		fmt.Println("An event-driven equity backtesting and strategy research tool")
	},
}

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "List the available signal sources",
	Run: func(cmd *cobra.Command, args []string) {
		names := strategies.Names()
		sort.Strings(names)
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(signalsCmd)
}
