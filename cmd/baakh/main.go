package main

import (
	"os"

	"baakh/cmd/baakh/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
