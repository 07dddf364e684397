package main

import (
	"os"

	"github.com/stratlab/quantsim/cmd/quantsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
