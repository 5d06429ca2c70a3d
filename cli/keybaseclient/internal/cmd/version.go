package cmd

import (
	"github.com/ianchesal/keybase-go/cli"
)

var versionCmd = cli.NewVersionCommand("keybaseclient")

func init() {
	RootCmd.AddCommand(versionCmd)
}
