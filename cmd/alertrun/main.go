package main

import (
	"fmt"
	"os"

	"github.com/psantana5/alertrun/cmd/alertrun/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "alertrun: %v\n", err)
		os.Exit(1)
	}
}
