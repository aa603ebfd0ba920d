package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/connset/connset/pkg/config"
	"github.com/connset/connset/pkg/store"
)

type contextKey string

const (
	storeContextKey  contextKey = "store"
	configContextKey contextKey = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "connset",
	Short: "Inspect and edit the proxy connection settings blob",
	Long: `connset decodes, edits and re-encodes the binary connection settings
blob that carries proxy configuration: proxy server, bypass list,
auto-config (PAC) URL and the associated flag bits.

The blob is persisted through a pluggable settings store (a single file
or a pebble database) which snapshots prior versions on every write.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init bootstraps the config itself; nothing to open yet.
		if cmd.Name() == "init" {
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("failed to open settings store: %w", err)
		}

		ctx := context.WithValue(cmd.Context(), configContextKey, cfg)
		ctx = context.WithValue(ctx, storeContextKey, st)
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if st, ok := cmd.Context().Value(storeContextKey).(store.Store); ok {
			return st.Close()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default "+config.DefaultConfigPath()+")")
	rootCmd.PersistentFlags().String("backend", "", "Override the store backend (file or pebble)")
	rootCmd.PersistentFlags().String("store-path", "", "Override the store path")
}

// loadConfig reads the config file, falling back to defaults when none
// exists, and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Root().PersistentFlags()

	path, _ := flags.GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}

	var cfg *config.Config
	if config.ConfigExists(path) {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}

	if backend, _ := flags.GetString("backend"); backend != "" {
		cfg.Store.Backend = backend
	}
	if storePath, _ := flags.GetString("store-path"); storePath != "" {
		cfg.Store.Path = storePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendPebble:
		return store.NewPebbleStore(store.PebbleStoreConfig{
			Dir:        cfg.Store.Path,
			MaxBackups: cfg.Store.MaxBackups,
		})
	default:
		return store.NewFileStore(store.FileStoreConfig{
			Path:       cfg.Store.Path,
			BackupDir:  cfg.Store.BackupDir,
			MaxBackups: cfg.Store.MaxBackups,
		})
	}
}

// storeFromContext returns the store opened by the root command.
func storeFromContext(cmd *cobra.Command) (store.Store, error) {
	st, ok := cmd.Context().Value(storeContextKey).(store.Store)
	if !ok {
		return nil, fmt.Errorf("settings store not initialized")
	}
	return st, nil
}

func configFromContext(cmd *cobra.Command) (*config.Config, error) {
	cfg, ok := cmd.Context().Value(configContextKey).(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return cfg, nil
}
