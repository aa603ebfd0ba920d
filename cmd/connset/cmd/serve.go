package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/connset/connset/pkg/api"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the settings blob over HTTP",
	Long: `Start the HTTP API. Routes under /api/v1 require the configured API
key in the X-API-Key header; /metrics is open for Prometheus scraping.

Example:
  connset serve
  connset serve --port 9090`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := storeFromContext(cmd)
		if err != nil {
			return err
		}
		cfg, err := configFromContext(cmd)
		if err != nil {
			return err
		}

		serverCfg := api.ServerConfig{
			Bind:   cfg.Server.Bind,
			Port:   cfg.Server.Port,
			APIKey: cfg.Server.APIKey,
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			serverCfg.Port = port
		}
		if bind, _ := cmd.Flags().GetString("bind"); bind != "" {
			serverCfg.Bind = bind
		}
		if serverCfg.APIKey == "" || serverCfg.APIKey == "auto" {
			return fmt.Errorf("no API key configured; run connset init first")
		}

		return api.StartServer(st, serverCfg)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "Override the configured listen port")
	serveCmd.Flags().String("bind", "", "Override the configured bind address")
	rootCmd.AddCommand(serveCmd)
}
