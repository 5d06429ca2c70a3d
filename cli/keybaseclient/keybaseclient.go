// Executable keybaseclient provides a command-line client for the
// keybase.io public key directory: it looks up users, verifies
// PGP-signed material against their published keys, and encrypts
// data for them.
package main

import (
	"github.com/ianchesal/keybase-go/cli"
	"github.com/ianchesal/keybase-go/cli/keybaseclient/internal/cmd"
)

func main() {
	cli.Execute(cmd.RootCmd)
}
