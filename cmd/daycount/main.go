package main

import (
	"os"

	"github.com/pfrederiksen/daycount/internal/cli"
)

var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
