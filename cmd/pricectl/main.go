package main

import (
	"os"

	"github.com/yourusername/grocery-price-ledger/internal/delivery/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
