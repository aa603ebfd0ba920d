package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestEncode_CanonicalBytes(t *testing.T) {
	rec := &Record{VersionSignature: 70, ChangeCounter: 1, RawFlags: FlagDirect}

	buf, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(buf, scenarioA()) {
		t.Errorf("encoded bytes differ from canonical sample:\n got %x\nwant %x", buf, scenarioA())
	}
}

func TestEncode_LengthAccounting(t *testing.T) {
	testCases := []struct {
		name                string
		server, bypass, pac string
	}{
		{name: "all empty"},
		{name: "server only", server: "192.168.1.101:8080"},
		{name: "server and bypass", server: "p:8080", bypass: "*.company.com;<local>"},
		{name: "pac only", pac: "http://wpad.example/wpad.dat"},
		{name: "all set", server: "p:1", bypass: "a;b;c", pac: "http://x/y.pac"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &Record{
				VersionSignature: DefaultVersionSignature,
				ProxyServer:      tc.server,
				ProxyBypass:      tc.bypass,
				AutoConfigURL:    tc.pac,
			}
			buf, err := Encode(rec)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			want := 12 + 32
			for _, s := range []string{tc.server, tc.bypass, tc.pac} {
				want += 4
				if s != "" {
					want += len(s) + 1
				}
			}
			if len(buf) != want {
				t.Errorf("encoded length = %d, want %d", len(buf), want)
			}
			if len(buf) != rec.EncodedSize() {
				t.Errorf("EncodedSize = %d, encoded length = %d", rec.EncodedSize(), len(buf))
			}
		})
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		rec  Record
	}{
		{
			name: "direct connection",
			rec:  Record{VersionSignature: 70, ChangeCounter: 1, RawFlags: FlagDirect},
		},
		{
			name: "manual proxy",
			rec: Record{
				VersionSignature: 70,
				ChangeCounter:    12,
				RawFlags:         FlagDirect | FlagProxy,
				ProxyServer:      "192.168.1.101:8080",
				ProxyBypass:      "*.company.com;<local>",
			},
		},
		{
			name: "pac with autodetect",
			rec: Record{
				VersionSignature: 70,
				ChangeCounter:    3,
				RawFlags:         FlagAutoConfig | FlagAutoDetect,
				AutoConfigURL:    "http://wpad.example/wpad.dat",
			},
		},
		{
			name: "reserved flag bits survive verbatim",
			rec: Record{
				VersionSignature: 70,
				ChangeCounter:    9,
				RawFlags:         0xABCD0000 | FlagProxy,
				ProxyServer:      "p:8080",
			},
		},
		{
			name: "sanity-threshold string",
			rec: Record{
				VersionSignature: 70,
				ProxyBypass:      strings.Repeat("b", SanityMaxStringLen-1),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf, err := Encode(&tc.rec)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := Decode(buf)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if got.VersionSignature != tc.rec.VersionSignature {
				t.Errorf("VersionSignature = %d, want %d", got.VersionSignature, tc.rec.VersionSignature)
			}
			if got.ChangeCounter != tc.rec.ChangeCounter {
				t.Errorf("ChangeCounter = %d, want %d", got.ChangeCounter, tc.rec.ChangeCounter)
			}
			if got.RawFlags != tc.rec.RawFlags {
				t.Errorf("RawFlags = %#x, want %#x", got.RawFlags, tc.rec.RawFlags)
			}
			if got.ProxyServer != tc.rec.ProxyServer {
				t.Errorf("ProxyServer = %q, want %q", got.ProxyServer, tc.rec.ProxyServer)
			}
			if got.ProxyBypass != tc.rec.ProxyBypass {
				t.Errorf("ProxyBypass = %q, want %q", got.ProxyBypass, tc.rec.ProxyBypass)
			}
			if got.AutoConfigURL != tc.rec.AutoConfigURL {
				t.Errorf("AutoConfigURL = %q, want %q", got.AutoConfigURL, tc.rec.AutoConfigURL)
			}
		})
	}
}

func TestEncode_Reproducible(t *testing.T) {
	rec := &Record{
		VersionSignature: 70,
		ChangeCounter:    42,
		RawFlags:         FlagProxy,
		ProxyServer:      "proxy.corp.example:3128",
		ProxyBypass:      "<local>",
	}

	first, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	second, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two encodes of the same record differ")
	}

	decoded, err := Decode(first)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	third, err := Encode(decoded)
	if err != nil {
		t.Fatalf("re-Encode failed: %v", err)
	}
	if !bytes.Equal(first, third) {
		t.Error("decode/encode cycle is not byte-stable")
	}
}

func TestEncode_ValueTooLarge(t *testing.T) {
	rec := &Record{
		VersionSignature: 70,
		// With the terminator this is one byte past the threshold.
		ProxyServer: strings.Repeat("x", SanityMaxStringLen),
	}

	if _, err := Encode(rec); !errors.Is(err, ErrValueTooLarge) {
		t.Errorf("expected ErrValueTooLarge, got %v", err)
	}
}

func TestEncode_DoesNotInferFlags(t *testing.T) {
	// A non-empty server with the proxy bit clear must be written as-is;
	// only the read path reconciles bits with strings.
	rec := &Record{VersionSignature: 70, ProxyServer: "p:8080"}

	buf, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if got.RawFlags&FlagProxy != 0 {
		t.Error("encoder set FlagProxy from string presence")
	}
	if eff := Reconcile(*got); !eff.EffectiveProxyEnabled {
		t.Error("reconciliation should still report the proxy as enabled")
	}
}

func TestEncode_LegacyInputReencodesCanonical(t *testing.T) {
	legacy := blob(
		le(70, 5, 0x02, 0xDEADBEEF),
		strField("proxy.corp.example:3128"),
		le(0, 0),
		zeros(32),
	)

	rec, err := Decode(legacy)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	buf, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	again, err := Decode(buf)
	if err != nil {
		t.Fatalf("re-Decode failed: %v", err)
	}

	if got := again.LayoutName(); got != "canonical-12" {
		t.Errorf("re-encoded blob decoded as %q, want canonical-12", got)
	}
	if again.HasUnknownField {
		t.Error("canonical output has no slot for the unknown field")
	}
	if again.ProxyServer != rec.ProxyServer {
		t.Errorf("ProxyServer = %q, want %q", again.ProxyServer, rec.ProxyServer)
	}
}
