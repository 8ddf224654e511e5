package main

import (
	"os"

	"querypulse/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
