package main

import (
	"fmt"
	"os"

	"github.com/archlens/archlens/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "archlens: %v\n", err)
		os.Exit(1)
	}
}
