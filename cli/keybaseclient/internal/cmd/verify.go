package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [username] [file]",
	Short: "Verify signed material against a user's published key.",
	Long: `Verify signed material against a user's published primary key.

With a file argument, the file holds the signed message; pass --sig to
verify a detached signature over the file's exact bytes instead.
Without a file argument, a clear-signed text block is read from stdin.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		u := lookupUserOrExit(cmd, args[0])
		strict, _ := cmd.Flags().GetBool("strict")

		var ok bool
		var err error
		if len(args) == 2 {
			sigPath, _ := cmd.Flags().GetString("sig")
			ok, err = u.VerifyFile(args[1], sigPath, strict)
		} else {
			var signed []byte
			signed, err = io.ReadAll(os.Stdin)
			if err == nil {
				ok, err = u.Verify(signed, strict)
			}
		}
		if err != nil {
			fmt.Println("Verification failed:", err)
			os.Exit(-1)
		}
		if !ok {
			fmt.Println("Signature BAD")
			os.Exit(-1)
		}
		fmt.Println("Signature OK from", args[0])
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringP("config", "c", "config.toml",
		"Path to the client configuration file.")
	verifyCmd.Flags().StringP("sig", "s", "",
		"Path to a detached signature over the file.")
	verifyCmd.Flags().Bool("strict",
		false, "Report a bad signature as an error with its reason.")
}
