package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "auisched: %s\n", err)
		os.Exit(1)
	}
}
