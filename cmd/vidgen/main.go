package main

import (
	"os"

	"github.com/nkosarev/vidgen/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
