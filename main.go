package main

import (
	"os"

	"github.com/jobradar/jobradar/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
