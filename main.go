package main

import (
	"os"

	"github.com/merxbit/statement-ledger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
