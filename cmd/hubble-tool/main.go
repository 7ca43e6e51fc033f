// cmd/hubble-tool/main.go
package main

import (
	"github.com/mwiater/hubble-tool/internal/commands"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = commands.SetVersionInfo
	executeCmd     = commands.Execute
)

// main injects build metadata and hands control to the cobra root command,
// which serves MCP over stdio unless a subcommand is given.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
