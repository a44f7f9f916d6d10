package main

import (
	"os"

	"github.com/miyakawa-h/jimaku/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
