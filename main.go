package main

import (
	"os"

	"printlab/cli"
)

const Version = "v0.1.0"

func main() {
	if err := cli.NewRootCmd(Version).Execute(); err != nil {
		os.Exit(1)
	}
}
