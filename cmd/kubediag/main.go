package main

import (
	"os"

	"github.com/kdiagnostics/kubediag/cmd/kubediag/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
