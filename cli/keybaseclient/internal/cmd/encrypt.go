package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ianchesal/keybase-go/utils"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt [username] [file]",
	Short: "Encrypt data for a user's published key.",
	Long: `Encrypt data so only the looked-up user can read it.

The plaintext is read from the file argument, or from stdin when no
file is given. The ciphertext is ASCII-armored and printed to stdout
unless --binary and --output say otherwise.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		u := lookupUserOrExit(cmd, args[0])
		binary, _ := cmd.Flags().GetBool("binary")
		output, _ := cmd.Flags().GetString("output")
		if binary && output == "" {
			fmt.Println("Binary ciphertext needs --output; refusing to write it to stdout.")
			os.Exit(-1)
		}

		var plaintext []byte
		var err error
		if len(args) == 2 {
			plaintext, err = os.ReadFile(args[1])
		} else {
			plaintext, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			fmt.Println("Couldn't read the plaintext:", err)
			os.Exit(-1)
		}

		payload, err := u.Encrypt(plaintext, !binary)
		if err != nil {
			fmt.Println("Encryption failed:", err)
			os.Exit(-1)
		}
		if output == "" {
			fmt.Println(payload.String())
			return
		}
		if err := utils.WriteFile(output, payload.Bytes(), 0600); err != nil {
			fmt.Print(err)
			os.Exit(-1)
		}
	},
}

func init() {
	RootCmd.AddCommand(encryptCmd)
	encryptCmd.Flags().StringP("config", "c", "config.toml",
		"Path to the client configuration file.")
	encryptCmd.Flags().StringP("output", "o", "",
		"Write the ciphertext to this file instead of stdout.")
	encryptCmd.Flags().BoolP("binary", "b", false,
		"Produce raw binary ciphertext instead of ASCII armor.")
}
