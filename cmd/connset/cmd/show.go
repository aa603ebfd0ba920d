package cmd

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/connset/connset/pkg/codec"
	"github.com/connset/connset/pkg/store"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Decode and display the stored connection settings",
	Long: `Decode the stored blob and display both the raw fields and the
reconciled effective states.

Example:
  connset show
  connset show --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := storeFromContext(cmd)
		if err != nil {
			return err
		}

		rec, err := store.Current(st)
		if errors.Is(err, store.ErrNoSettings) {
			cmd.Println("no settings stored")
			return nil
		}
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printRecordJSON(cmd, rec)
		}
		printRecord(cmd, rec)
		return nil
	},
}

func printRecord(cmd *cobra.Command, rec codec.Record) {
	cmd.Printf("version signature:  %d\n", rec.VersionSignature)
	cmd.Printf("change counter:     %d\n", rec.ChangeCounter)
	cmd.Printf("raw flags:          %#08x\n", rec.RawFlags)
	cmd.Printf("  direct:           %t\n", rec.RawFlags&codec.FlagDirect != 0)
	cmd.Printf("  proxy:            %t\n", rec.RawFlags&codec.FlagProxy != 0)
	cmd.Printf("  auto-config:      %t\n", rec.RawFlags&codec.FlagAutoConfig != 0)
	cmd.Printf("  auto-detect:      %t\n", rec.RawFlags&codec.FlagAutoDetect != 0)
	if rec.HasUnknownField {
		cmd.Printf("unknown field:      %#x\n", rec.UnknownField)
	}
	cmd.Printf("proxy server:       %s\n", valueOrNone(rec.ProxyServer))
	cmd.Printf("proxy bypass:       %s\n", valueOrNone(rec.ProxyBypass))
	cmd.Printf("auto-config URL:    %s\n", valueOrNone(rec.AutoConfigURL))
	cmd.Printf("proxy enabled:      %t (effective)\n", rec.EffectiveProxyEnabled)
	cmd.Printf("auto-config active: %t (effective)\n", rec.EffectiveAutoConfigEnabled)
	cmd.Printf("decoded layout:     %s\n", rec.LayoutName())
}

func printRecordJSON(cmd *cobra.Command, rec codec.Record) error {
	view := struct {
		VersionSignature  uint32 `json:"version_signature"`
		ChangeCounter     uint32 `json:"change_counter"`
		RawFlags          uint32 `json:"raw_flags"`
		UnknownField      *uint32 `json:"unknown_field,omitempty"`
		ProxyServer       string `json:"proxy_server"`
		ProxyBypass       string `json:"proxy_bypass"`
		AutoConfigURL     string `json:"auto_config_url"`
		ProxyEnabled      bool   `json:"proxy_enabled"`
		AutoConfigEnabled bool   `json:"auto_config_enabled"`
		Layout            string `json:"layout"`
	}{
		VersionSignature:  rec.VersionSignature,
		ChangeCounter:     rec.ChangeCounter,
		RawFlags:          rec.RawFlags,
		ProxyServer:       rec.ProxyServer,
		ProxyBypass:       rec.ProxyBypass,
		AutoConfigURL:     rec.AutoConfigURL,
		ProxyEnabled:      rec.EffectiveProxyEnabled,
		AutoConfigEnabled: rec.EffectiveAutoConfigEnabled,
		Layout:            rec.LayoutName(),
	}
	if rec.HasUnknownField {
		unknown := rec.UnknownField
		view.UnknownField = &unknown
	}

	out, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func init() {
	showCmd.Flags().Bool("json", false, "Emit JSON instead of the human-readable listing")
	rootCmd.AddCommand(showCmd)
}
