package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/connset/connset/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a fresh configuration with a generated API key",
	Long: `Write a fresh configuration file. The store defaults to the file
backend under the data directory and the HTTP API gets a newly
generated key.

Example:
  connset init
  connset init --data-dir /var/lib/connset`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Root().PersistentFlags().GetString("config")
		if path == "" {
			path = config.DefaultConfigPath()
		}

		force, _ := cmd.Flags().GetBool("force")
		if config.ConfigExists(path) && !force {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}

		dataDir, _ := cmd.Flags().GetString("data-dir")
		cfg, err := config.BootstrapConfig(path, dataDir)
		if err != nil {
			return err
		}

		cmd.Printf("config written to %s\n", path)
		cmd.Printf("store: %s backend at %s\n", cfg.Store.Backend, cfg.Store.Path)
		cmd.Printf("API key: %s\n", cfg.Server.APIKey)
		cmd.Println("keep the key safe; it is required for every /api/v1 request")
		return nil
	},
}

func init() {
	initCmd.Flags().String("data-dir", "", "Directory for the blob and its backups")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
