package main

import (
	"os"

	"github.com/grindloop/grind/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
