//go:build fuzz
// +build fuzz

package codec

import (
	"bytes"
	"testing"
)

// FuzzDecode_NeverPanics feeds arbitrary bytes to the decoder. Malformed
// input must always come back as an error, and anything that decodes must
// re-encode and decode again to the same field values.
func FuzzDecode_NeverPanics(f *testing.F) {
	f.Add([]byte{})
	f.Add(scenarioA())
	f.Add(blob(le(70, 2, 0x03), strField("192.168.1.101:8080"), strField("<local>"), le(0), zeros(32)))
	f.Add(make([]byte, 11))
	f.Add(make([]byte, 56))

	f.Fuzz(func(t *testing.T, data []byte) {
		rec, err := Decode(data)
		if err != nil {
			return
		}

		buf, err := Encode(rec)
		if err != nil {
			t.Fatalf("re-encode of decoded record failed: %v", err)
		}
		again, err := Decode(buf)
		if err != nil {
			t.Fatalf("canonical re-encode did not decode: %v", err)
		}
		if again.ProxyServer != rec.ProxyServer ||
			again.ProxyBypass != rec.ProxyBypass ||
			again.AutoConfigURL != rec.AutoConfigURL ||
			again.RawFlags != rec.RawFlags {
			t.Errorf("round-trip mismatch: %+v vs %+v", again, rec)
		}
	})
}

// FuzzEncodeDecode_RoundTrip checks the round-trip property over arbitrary
// field values within the sanity bound.
func FuzzEncodeDecode_RoundTrip(f *testing.F) {
	f.Add(uint32(70), uint32(1), uint32(0x03), "p:8080", "<local>", "")
	f.Add(uint32(70), uint32(0), uint32(0), "", "", "http://wpad/wpad.dat")

	f.Fuzz(func(t *testing.T, sig, counter, flags uint32, server, bypass, pac string) {
		if len(server)+1 > SanityMaxStringLen ||
			len(bypass)+1 > SanityMaxStringLen ||
			len(pac)+1 > SanityMaxStringLen {
			t.Skip("value past sanity bound")
		}

		rec := Record{
			VersionSignature: sig,
			ChangeCounter:    counter,
			RawFlags:         flags,
			ProxyServer:      server,
			ProxyBypass:      bypass,
			AutoConfigURL:    pac,
		}
		buf, err := Encode(&rec)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		got, err := Decode(buf)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}

		if got.VersionSignature != sig || got.ChangeCounter != counter || got.RawFlags != flags {
			t.Errorf("fixed fields mismatch: %+v", got)
		}
		if got.ProxyServer != server || got.ProxyBypass != bypass || got.AutoConfigURL != pac {
			t.Errorf("string fields mismatch: %+v", got)
		}
		if !bytes.Equal(buf, mustEncode(t, got)) {
			t.Error("re-encode is not byte-stable")
		}
	})
}

func mustEncode(t *testing.T, r *Record) []byte {
	t.Helper()
	buf, err := Encode(r)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return buf
}
