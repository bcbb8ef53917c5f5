package main

import (
	"github.com/tacogips/ghdl/internal/build"
	"github.com/tacogips/ghdl/internal/cli"
)

// Build metadata (set via ldflags during build)
var (
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.Version = build.Version()
	cli.GitCommit = gitCommit
	cli.BuildDate = buildDate

	cli.Execute()
}
