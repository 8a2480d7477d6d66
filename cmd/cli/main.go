package main

import (
	"os"

	"github.com/megaplex/realestate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
