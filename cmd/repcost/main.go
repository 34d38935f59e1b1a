package main

import (
	"fmt"
	"os"

	"repcost/internal/cli"
	"repcost/internal/logging"
)

func main() {
	defer logging.Sync()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
