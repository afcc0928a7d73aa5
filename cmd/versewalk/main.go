package main

import (
	"os"

	"github.com/versewalk/versewalk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
