package main

import (
	"os"

	"multicast-sender/internal/cli"
	"multicast-sender/internal/config"
)

func main() {
	os.Exit(cli.Run(config.Start, os.Args[1:], os.Stdout, os.Stderr))
}
