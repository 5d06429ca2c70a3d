package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	clientapp "github.com/ianchesal/keybase-go/application/client"
	"github.com/ianchesal/keybase-go/cli"
	"github.com/ianchesal/keybase-go/directory"
	"github.com/ianchesal/keybase-go/pgp"
)

var initCmd = cli.NewInitCommand("keybaseclient", initRunFunc)

func init() {
	RootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("dir", "d", ".",
		"Location of directory for storing the config file.")
}

func initRunFunc(cmd *cobra.Command, args []string) {
	dir, _ := cmd.Flags().GetString("dir")
	mkConfig(dir)
}

func mkConfig(dir string) {
	file := filepath.Join(dir, "config.toml")
	conf := clientapp.NewConfig(file, "toml",
		directory.DefaultBaseURL, directory.DefaultAPIVersion,
		&pgp.Config{Backend: pgp.BackendOpenPGP})
	if err := conf.Save(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	fmt.Println("Created config file", file)
}
