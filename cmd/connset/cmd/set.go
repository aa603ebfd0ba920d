package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/connset/connset/pkg/codec"
	"github.com/connset/connset/pkg/store"
)

// setOptions carries the requested field changes; nil means "leave as is".
type setOptions struct {
	server, bypass, pacURL                 *string
	direct, proxy, autoConfig, autoDetect *bool
}

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Update connection settings and write the blob back",
	Long: `Update one or more settings fields through a read-decode-modify-
encode-write cycle. The change counter advances on every write and the
previous blob is snapshotted when the store keeps backups.

Flag bits are written exactly as requested: setting a proxy server does
not flip the proxy bit by itself.

Examples:
  connset set --server 192.168.1.101:8080 --proxy --bypass "*.company.com;<local>"
  connset set --pac-url http://wpad.corp.example/wpad.dat --auto-config
  connset set --interactive`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := storeFromContext(cmd)
		if err != nil {
			return err
		}

		opts := optionsFromFlags(cmd)
		interactive, _ := cmd.Flags().GetBool("interactive")
		if interactive || opts.empty() {
			current, err := store.Current(st)
			if err != nil {
				// Absent or unreadable: prompt against a blank record.
				current = codec.Record{VersionSignature: codec.DefaultVersionSignature}
			}
			opts, err = promptOptions(cmd.InOrStdin(), cmd.OutOrStdout(), current)
			if err != nil {
				return err
			}
		}

		rec, err := store.Update(st, func(r codec.Record) codec.Record {
			return applyOptions(r, opts)
		})
		if err != nil {
			return err
		}

		cmd.Printf("settings written (change counter %d)\n", rec.ChangeCounter)
		return nil
	},
}

func optionsFromFlags(cmd *cobra.Command) setOptions {
	var opts setOptions
	flags := cmd.Flags()

	if flags.Changed("server") {
		v, _ := flags.GetString("server")
		opts.server = &v
	}
	if flags.Changed("bypass") {
		v, _ := flags.GetString("bypass")
		opts.bypass = &v
	}
	if flags.Changed("pac-url") {
		v, _ := flags.GetString("pac-url")
		opts.pacURL = &v
	}
	if flags.Changed("direct") {
		v, _ := flags.GetBool("direct")
		opts.direct = &v
	}
	if flags.Changed("proxy") {
		v, _ := flags.GetBool("proxy")
		opts.proxy = &v
	}
	if flags.Changed("auto-config") {
		v, _ := flags.GetBool("auto-config")
		opts.autoConfig = &v
	}
	if flags.Changed("auto-detect") {
		v, _ := flags.GetBool("auto-detect")
		opts.autoDetect = &v
	}
	return opts
}

func (o setOptions) empty() bool {
	return o.server == nil && o.bypass == nil && o.pacURL == nil &&
		o.direct == nil && o.proxy == nil && o.autoConfig == nil && o.autoDetect == nil
}

// applyOptions produces the modified record. Strings and flag bits change
// independently; nothing is inferred.
func applyOptions(rec codec.Record, opts setOptions) codec.Record {
	if opts.server != nil {
		rec = rec.WithProxyServer(*opts.server)
	}
	if opts.bypass != nil {
		rec = rec.WithProxyBypass(*opts.bypass)
	}
	if opts.pacURL != nil {
		rec = rec.WithAutoConfigURL(*opts.pacURL)
	}
	if opts.direct != nil {
		rec = rec.WithFlag(codec.FlagDirect, *opts.direct)
	}
	if opts.proxy != nil {
		rec = rec.WithFlag(codec.FlagProxy, *opts.proxy)
	}
	if opts.autoConfig != nil {
		rec = rec.WithFlag(codec.FlagAutoConfig, *opts.autoConfig)
	}
	if opts.autoDetect != nil {
		rec = rec.WithFlag(codec.FlagAutoDetect, *opts.autoDetect)
	}
	return rec
}

// promptOptions interactively collects new values; an empty answer keeps
// the current one.
func promptOptions(in io.Reader, out io.Writer, current codec.Record) (setOptions, error) {
	reader := bufio.NewReader(in)
	var opts setOptions

	server, err := promptString(reader, out, "proxy server", current.ProxyServer)
	if err != nil {
		return opts, err
	}
	opts.server = server

	bypass, err := promptString(reader, out, "proxy bypass", current.ProxyBypass)
	if err != nil {
		return opts, err
	}
	opts.bypass = bypass

	pacURL, err := promptString(reader, out, "auto-config URL", current.AutoConfigURL)
	if err != nil {
		return opts, err
	}
	opts.pacURL = pacURL

	proxy, err := promptBool(reader, out, "proxy bit", current.RawFlags&codec.FlagProxy != 0)
	if err != nil {
		return opts, err
	}
	opts.proxy = proxy

	autoConfig, err := promptBool(reader, out, "auto-config bit", current.RawFlags&codec.FlagAutoConfig != 0)
	if err != nil {
		return opts, err
	}
	opts.autoConfig = autoConfig

	return opts, nil
}

func promptString(reader *bufio.Reader, out io.Writer, label, current string) (*string, error) {
	fmt.Fprintf(out, "%s [%s]: ", label, valueOrNone(current))
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil // keep current
	}
	if line == "-" {
		empty := ""
		return &empty, nil // explicit clear
	}
	return &line, nil
}

func promptBool(reader *bufio.Reader, out io.Writer, label string, current bool) (*bool, error) {
	fmt.Fprintf(out, "%s (y/n) [%t]: ", label, current)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "true":
		v := true
		return &v, nil
	case "n", "no", "false":
		v := false
		return &v, nil
	default:
		return nil, nil // keep current
	}
}

func init() {
	setCmd.Flags().String("server", "", "Proxy server as host:port")
	setCmd.Flags().String("bypass", "", "Semicolon-delimited bypass list")
	setCmd.Flags().String("pac-url", "", "Proxy auto-config (PAC) URL")
	setCmd.Flags().Bool("direct", false, "Set or clear the direct-connection bit")
	setCmd.Flags().Bool("proxy", false, "Set or clear the proxy bit")
	setCmd.Flags().Bool("auto-config", false, "Set or clear the auto-config bit")
	setCmd.Flags().Bool("auto-detect", false, "Set or clear the auto-detect (WPAD) bit")
	setCmd.Flags().Bool("interactive", false, "Prompt for each value")
	rootCmd.AddCommand(setCmd)
}
