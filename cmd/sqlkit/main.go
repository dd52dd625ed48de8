package main

import (
	"context"
	"log"
	"os"

	"github.com/pseudomuto/sqlkit/pkg/cmd"
)

// NB: This is set by GoReleaser during a build.
var version string

func main() {
	if err := cmd.Run(context.Background(), version, os.Args); err != nil {
		log.Fatal(err)
	}
}
