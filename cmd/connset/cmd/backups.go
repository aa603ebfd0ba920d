package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/connset/connset/pkg/store"
)

// backupsCmd represents the backups command
var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List blob snapshots kept by the store",
	Long: `List the snapshots the store took before each overwrite, newest
first. The file backend keeps them in the configured backup directory;
the pebble backend keeps them inside the database.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		versioned, err := versionedFromContext(cmd)
		if err != nil {
			return err
		}

		backups, err := versioned.Backups()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			cmd.Println("no backups")
			return nil
		}

		for _, b := range backups {
			cmd.Printf("%s  %6d bytes  %s\n", b.ID, b.Size, b.Created.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

// backupsRestoreCmd represents the backups restore subcommand
var backupsRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Make a backup the current settings blob",
	Long: `Replace the current settings blob with the named backup. The blob
being replaced is snapshotted first, so a restore can itself be
undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := storeFromContext(cmd)
		if err != nil {
			return err
		}
		versioned, err := versionedFromContext(cmd)
		if err != nil {
			return err
		}

		data, err := versioned.Backup(args[0])
		if err != nil {
			return err
		}
		if err := st.SetRawBytes(data); err != nil {
			return err
		}

		cmd.Printf("restored backup %s (%d bytes)\n", args[0], len(data))
		return nil
	},
}

func versionedFromContext(cmd *cobra.Command) (store.Versioned, error) {
	st, err := storeFromContext(cmd)
	if err != nil {
		return nil, err
	}
	versioned, ok := st.(store.Versioned)
	if !ok {
		return nil, fmt.Errorf("store backend does not keep backups")
	}
	return versioned, nil
}

func init() {
	backupsCmd.AddCommand(backupsRestoreCmd)
	rootCmd.AddCommand(backupsCmd)
}
