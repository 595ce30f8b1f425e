package main

import (
	"os"

	"github.com/karkidi-tools/jobradar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
