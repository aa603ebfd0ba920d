package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connset/connset/pkg/codec"
)

func TestCompare_Identical(t *testing.T) {
	rec := codec.Record{
		VersionSignature: 70,
		ChangeCounter:    3,
		RawFlags:         codec.FlagProxy,
		ProxyServer:      "p:8080",
	}

	assert.Empty(t, Compare(rec, rec))
	assert.Equal(t, "no differences", Format(Compare(rec, rec)))
}

func TestCompare_FieldChanges(t *testing.T) {
	a := codec.Record{VersionSignature: 70, ChangeCounter: 1, RawFlags: codec.FlagDirect}
	b := a.WithProxyServer("192.168.1.101:8080").WithFlag(codec.FlagProxy, true)
	b.ChangeCounter = 2

	changes := Compare(a, b)

	fields := make(map[string]Change, len(changes))
	for _, c := range changes {
		fields[c.Field] = c
	}

	require.Contains(t, fields, "changeCounter")
	assert.Equal(t, "1", fields["changeCounter"].Old)
	assert.Equal(t, "2", fields["changeCounter"].New)

	require.Contains(t, fields, "proxyServer")
	assert.Equal(t, `""`, fields["proxyServer"].Old)
	assert.Equal(t, `"192.168.1.101:8080"`, fields["proxyServer"].New)

	require.Contains(t, fields, "proxyEnabled")
	assert.Equal(t, "false", fields["proxyEnabled"].Old)
	assert.Equal(t, "true", fields["proxyEnabled"].New)

	assert.NotContains(t, fields, "versionSignature")
}

func TestCompare_EffectiveStateOnly(t *testing.T) {
	// Same raw flags, but a server string appears: only the derived state
	// and the string itself should differ.
	a := codec.Record{VersionSignature: 70}
	b := a.WithProxyServer("p:8080")

	changes := Compare(a, b)
	require.Len(t, changes, 2)
	assert.Equal(t, "proxyServer", changes[0].Field)
	assert.Equal(t, "proxyEnabled", changes[1].Field)
}

func TestCompare_UnknownField(t *testing.T) {
	a := codec.Record{VersionSignature: 70}
	b := codec.Record{VersionSignature: 70, UnknownField: 0xBEEF, HasUnknownField: true}

	changes := Compare(a, b)
	require.Len(t, changes, 1)
	assert.Equal(t, "unknownField", changes[0].Field)
	assert.Equal(t, "(absent)", changes[0].Old)
	assert.Equal(t, "0xbeef", changes[0].New)
}

func TestCompareBlobs(t *testing.T) {
	recA := codec.Record{VersionSignature: 70, ChangeCounter: 1}
	recB := recA.WithAutoConfigURL("http://wpad/wpad.dat")
	recB.ChangeCounter = 2

	blobA, err := codec.Encode(&recA)
	require.NoError(t, err)
	blobB, err := codec.Encode(&recB)
	require.NoError(t, err)

	changes, err := CompareBlobs(blobA, blobB)
	require.NoError(t, err)
	assert.NotEmpty(t, changes)

	_, err = CompareBlobs([]byte("junk"), blobB)
	assert.ErrorIs(t, err, codec.ErrUnknownLayout)
}

func TestFormat(t *testing.T) {
	out := Format([]Change{
		{Field: "proxyServer", Old: `""`, New: `"p:8080"`},
		{Field: "proxyEnabled", Old: "false", New: "true"},
	})
	assert.Equal(t, "proxyServer: \"\" -> \"p:8080\"\nproxyEnabled: false -> true", out)
}
