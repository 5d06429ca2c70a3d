package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [username]",
	Short: "Look up a user in the public directory.",
	Long: `Look up a user in the keybase.io public directory and print
their profile and published public keys.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		u := lookupUserOrExit(cmd, args[0])

		fmt.Println("Username: ", u.Username())
		if u.Name() != "" {
			fmt.Println("Full name:", u.Name())
		}
		if u.Location() != "" {
			fmt.Println("Location: ", u.Location())
		}
		showKey, _ := cmd.Flags().GetBool("show-key")
		for _, name := range u.PublicKeyNames() {
			key, err := u.GetPublicKeyNamed(name)
			if err != nil {
				fmt.Println("Couldn't parse key", name+":", err)
				os.Exit(-1)
			}
			fmt.Printf("Key %q: %s (key id %s)\n",
				name, key.Fingerprint(), key.Key().KeyID())
			if showKey {
				fmt.Println(key.Bundle())
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().StringP("config", "c", "config.toml",
		"Path to the client configuration file.")
	lookupCmd.Flags().BoolP("show-key", "k", false,
		"Print the user's public key bundles.")
}
