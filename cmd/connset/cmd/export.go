package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the stored blob to a file byte-for-byte",
	Long: `Write the current settings blob to a file without decoding it. The
output is the exact stored bytes, suitable for re-import or for feeding
to diff.

Example:
  connset export settings.blob`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := storeFromContext(cmd)
		if err != nil {
			return err
		}

		data, err := st.RawBytes()
		if err != nil {
			return err
		}

		if err := os.WriteFile(args[0], data, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", args[0], err)
		}

		cmd.Printf("wrote %d bytes to %s\n", len(data), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
