package cmd

import (
	"fmt"
	"strings"

	"github.com/PolarWolf314/securevault/internal/cipher"
	"github.com/PolarWolf314/securevault/internal/ui"
	"github.com/spf13/cobra"
)

var ciphersCmd = &cobra.Command{
	Use:   "ciphers",
	Short: "List the supported cipher strategies",
	Long: `Lists the cipher strategies that can be selected with --cipher, the
SECUREVAULT_CIPHER environment variable or the config file.

Changing the cipher of an existing vault makes its records unreadable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		current := Settings.Cipher
		if current == "" {
			current = cipher.Default
		}

		for _, name := range cipher.Names() {
			var notes []string
			if name == cipher.Default {
				notes = append(notes, "default")
			}
			if name == current {
				notes = append(notes, "selected")
			}
			if name == cipher.AlgorithmReverse {
				notes = append(notes, "testing only")
			}

			line := "  " + name
			if len(notes) > 0 {
				line += " " + ui.Muted.Sprint(strings.Join(notes, ", "))
			}
			fmt.Println(line)
		}
		return nil
	},
}
