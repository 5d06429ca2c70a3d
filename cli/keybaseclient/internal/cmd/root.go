package cmd

import (
	"github.com/ianchesal/keybase-go/cli"
)

// RootCmd represents the base "keybaseclient" command when called
// without any subcommands.
var RootCmd = cli.NewRootCommand("keybaseclient",
	"Keybase.io public key directory client.",
	`
________________________________________________________________________________

keybaseclient queries the keybase.io public key directory.

It resolves usernames to their published PGP public keys, verifies
signed text and files against those keys, and encrypts data so only
the looked-up user can read it. It never needs the user's private
key and never logs in to keybase.io.
________________________________________________________________________________
`)
