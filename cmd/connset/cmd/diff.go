package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/connset/connset/pkg/diff"
	"github.com/connset/connset/pkg/store"
)

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff <blob-a> [blob-b]",
	Short: "Compare two settings blobs field by field",
	Long: `Decode two blobs and report the fields that differ, including the
reconciled effective states.

With two arguments both are read as blob files. With one argument the
named backup is compared against the current settings.

Examples:
  connset diff before.blob after.blob
  connset diff 2zN1qXaUzz4FHSIuDVBqLYIfxQP`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var blobA, blobB []byte

		if len(args) == 2 {
			var err error
			if blobA, err = os.ReadFile(args[0]); err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			if blobB, err = os.ReadFile(args[1]); err != nil {
				return fmt.Errorf("failed to read %s: %w", args[1], err)
			}
		} else {
			st, err := storeFromContext(cmd)
			if err != nil {
				return err
			}
			versioned, ok := st.(store.Versioned)
			if !ok {
				return fmt.Errorf("store backend does not keep backups")
			}
			if blobA, err = versioned.Backup(args[0]); err != nil {
				return err
			}
			if blobB, err = st.RawBytes(); err != nil {
				return err
			}
		}

		changes, err := diff.CompareBlobs(blobA, blobB)
		if err != nil {
			return err
		}
		cmd.Println(diff.Format(changes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
