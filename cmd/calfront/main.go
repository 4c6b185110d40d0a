package main

import (
	"os"

	"github.com/klauskaan/cal-langserver/cmd/calfront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
