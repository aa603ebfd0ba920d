package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/connset/connset/pkg/codec"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Store a blob file as the current settings",
	Long: `Store the contents of a blob file as the current settings. The blob
is decoded first to confirm it matches a known layout; --force skips
the check and stores the bytes as given.

Example:
  connset import settings.blob`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := storeFromContext(cmd)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			rec, err := codec.Decode(data)
			if err != nil {
				return fmt.Errorf("%s does not decode (use --force to store anyway): %w", args[0], err)
			}
			cmd.Printf("blob decodes as %s layout, change counter %d\n", rec.LayoutName(), rec.ChangeCounter)
		}

		if err := st.SetRawBytes(data); err != nil {
			return err
		}

		cmd.Printf("imported %d bytes from %s\n", len(data), args[0])
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("force", false, "Store the bytes even if they do not decode")
	rootCmd.AddCommand(importCmd)
}
