// Package diff compares two decoded settings records field by field, for
// the CLI diff command and for inspecting backups against the current blob.
package diff

import (
	"fmt"
	"strings"

	"github.com/connset/connset/pkg/codec"
)

// Change records one field-level difference between two settings records.
type Change struct {
	Field string
	Old   string
	New   string
}

// Compare reconciles both records and reports the fields that differ, in
// wire order followed by the derived effective states. An empty result
// means the records are equivalent for every field an operator can see.
func Compare(a, b codec.Record) []Change {
	a = codec.Reconcile(a)
	b = codec.Reconcile(b)

	var changes []Change
	add := func(field, oldVal, newVal string) {
		if oldVal != newVal {
			changes = append(changes, Change{Field: field, Old: oldVal, New: newVal})
		}
	}

	add("versionSignature", fmt.Sprintf("%d", a.VersionSignature), fmt.Sprintf("%d", b.VersionSignature))
	add("changeCounter", fmt.Sprintf("%d", a.ChangeCounter), fmt.Sprintf("%d", b.ChangeCounter))
	add("rawFlags", fmt.Sprintf("%#x", a.RawFlags), fmt.Sprintf("%#x", b.RawFlags))
	if a.HasUnknownField || b.HasUnknownField {
		add("unknownField", formatUnknown(a), formatUnknown(b))
	}
	add("proxyServer", quote(a.ProxyServer), quote(b.ProxyServer))
	add("proxyBypass", quote(a.ProxyBypass), quote(b.ProxyBypass))
	add("autoConfigURL", quote(a.AutoConfigURL), quote(b.AutoConfigURL))
	add("proxyEnabled", fmt.Sprintf("%t", a.EffectiveProxyEnabled), fmt.Sprintf("%t", b.EffectiveProxyEnabled))
	add("autoConfigEnabled", fmt.Sprintf("%t", a.EffectiveAutoConfigEnabled), fmt.Sprintf("%t", b.EffectiveAutoConfigEnabled))

	return changes
}

// CompareBlobs decodes both buffers and compares the records.
func CompareBlobs(a, b []byte) ([]Change, error) {
	recA, err := codec.Decode(a)
	if err != nil {
		return nil, fmt.Errorf("first blob: %w", err)
	}
	recB, err := codec.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("second blob: %w", err)
	}
	return Compare(*recA, *recB), nil
}

// Format renders changes one per line as "field: old -> new".
func Format(changes []Change) string {
	if len(changes) == 0 {
		return "no differences"
	}
	var sb strings.Builder
	for _, c := range changes {
		fmt.Fprintf(&sb, "%s: %s -> %s\n", c.Field, c.Old, c.New)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatUnknown(r codec.Record) string {
	if !r.HasUnknownField {
		return "(absent)"
	}
	return fmt.Sprintf("%#x", r.UnknownField)
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
