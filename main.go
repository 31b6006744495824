package main

import (
	"os"

	"calcsheet/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
