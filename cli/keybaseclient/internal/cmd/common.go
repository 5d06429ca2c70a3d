package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	clientapp "github.com/ianchesal/keybase-go/application/client"
	"github.com/ianchesal/keybase-go/client"
	"github.com/ianchesal/keybase-go/directory"
	"github.com/ianchesal/keybase-go/pgp"
)

const configMissingUsage = `
Couldn't load the client's config file.

To create a valid config file, run:
	keybaseclient init

and pass the created file to the command you were running:
	keybaseclient <command> --config <path>
`

func loadConfigOrExit(cmd *cobra.Command) *clientapp.Config {
	config, _ := cmd.Flags().GetString("config")
	conf := &clientapp.Config{}
	if err := conf.Load(config, "toml"); err != nil {
		fmt.Println(err)
		fmt.Print(configMissingUsage)
		os.Exit(-1)
	}
	return conf
}

func newDirectory(conf *clientapp.Config) *directory.Directory {
	httpClient := &http.Client{Timeout: conf.RequestTimeout()}
	return directory.NewWithClient(conf.APIBaseURL, conf.APIVersion,
		httpClient, conf.NewLogger())
}

func newEngineOrExit(conf *clientapp.Config) pgp.Engine {
	engine, err := pgp.NewEngine(conf.Engine)
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	return engine
}

// lookupUserOrExit resolves username against the configured directory
// and returns a bound client handle.
func lookupUserOrExit(cmd *cobra.Command, username string) *client.User {
	conf := loadConfigOrExit(cmd)
	u, err := client.Lookup(context.Background(), newDirectory(conf),
		newEngineOrExit(conf), conf.NewLogger(), username)
	if err != nil {
		fmt.Println("Couldn't look up user", username+":", err)
		os.Exit(-1)
	}
	return u
}
