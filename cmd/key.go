package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/securevault/internal/keys"
	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/spf13/cobra"
)

var keyReveal bool

func init() {
	keyShowCmd.Flags().BoolVar(&keyReveal, "reveal", false, "print the key itself (requires the master passphrase)")
	keyCmd.AddCommand(keyShowCmd)
}

func resetKeyCommandState() {
	keyReveal = false
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Inspect the record key",
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the record key fingerprint",
	Long: `Shows the fingerprint of the record key, which identifies the key
without revealing it.

With --reveal the key is printed as base64 after the master passphrase has
been verified. Store it somewhere safe; anyone holding it can read the
vault file.`,
	Args: cobra.NoArgs,
	RunE: runKeyShow,
}

func runKeyShow(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting key show command")

	if keyReveal {
		session, err := unlockSession(context.Background())
		if err != nil {
			return fail(err)
		}
		session.Close()
	}

	key, err := keys.Load(Settings.KeyFile)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("%-13s %s\n", "Key file:", ui.Path.Sprint(Settings.KeyFile))
	fmt.Printf("%-13s %s\n", "Fingerprint:", keys.Fingerprint(key))
	if keyReveal {
		fmt.Printf("%-13s %s\n", "Key:", keys.EncodeForDisplay(key))
	}
	return nil
}
