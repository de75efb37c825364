package main

import (
	"os"

	"github.com/fieldops/leadrouter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
