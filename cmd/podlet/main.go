// Package main is the entry point for the podlet CLI.
//
// podlet is a small configuration-distribution tool: it stores Secrets,
// ConfigMaps, and Deployments as local YAML objects and materializes them
// into per-pod sandbox directories, the way a kubelet would inject them
// into containers as environment variables and projected volume files.
//
// Commands: create, get, describe, edit, apply, delete, run, restart,
// sync, init, backup, restore.
//
// For detailed usage information, run:
//
//	podlet --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/podlet/cmd/podlet/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
