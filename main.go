package main

import (
	"log"
	"os"

	"github.com/merlai/merlai-api/internal/cli"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

func main() {
	cli.SetVersion(releaseVersion)
	if err := cli.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
