package main

import (
	"os"

	"github.com/skylar-Youn/subpreview/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
