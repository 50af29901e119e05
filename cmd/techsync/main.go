package main

import (
	"os"

	"github.com/mkarren/techsync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
