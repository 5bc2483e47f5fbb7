package main

import (
	"os"

	"github.com/dshills/codex-local/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
