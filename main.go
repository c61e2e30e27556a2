package main

import (
	"os"

	"github.com/careops/bookd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
