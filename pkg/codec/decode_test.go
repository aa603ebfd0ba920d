package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// le appends each value as a little-endian uint32.
func le(vs ...uint32) []byte {
	buf := make([]byte, 0, 4*len(vs))
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	return buf
}

// strField builds one interleaved string section: length prefix, ASCII
// bytes, one trailing NUL.
func strField(s string) []byte {
	buf := le(uint32(len(s) + 1))
	buf = append(buf, s...)
	return append(buf, 0)
}

func blob(parts ...[]byte) []byte {
	var buf []byte
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return buf
}

func zeros(n int) []byte { return make([]byte, n) }

// scenarioA is a "direct connection only" sample in the canonical 12-byte
// layout: all three strings absent, full 32-byte tail.
func scenarioA() []byte {
	return blob(le(70, 1, 0x01), le(0, 0, 0), zeros(32))
}

func TestDecode_DirectConnectionOnly(t *testing.T) {
	rec, err := Decode(scenarioA())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if rec.VersionSignature != 70 {
		t.Errorf("VersionSignature = %d, want 70", rec.VersionSignature)
	}
	if rec.ChangeCounter != 1 {
		t.Errorf("ChangeCounter = %d, want 1", rec.ChangeCounter)
	}
	if rec.RawFlags != 0x01 {
		t.Errorf("RawFlags = %#x, want 0x01", rec.RawFlags)
	}
	if rec.ProxyServer != "" || rec.ProxyBypass != "" || rec.AutoConfigURL != "" {
		t.Errorf("expected all strings empty, got %q %q %q",
			rec.ProxyServer, rec.ProxyBypass, rec.AutoConfigURL)
	}
	if rec.HasUnknownField {
		t.Error("canonical layout must not carry an unknown field")
	}
	if got := rec.LayoutName(); got != "canonical-12" {
		t.Errorf("LayoutName = %q, want canonical-12", got)
	}

	eff := Reconcile(*rec)
	if eff.EffectiveProxyEnabled {
		t.Error("direct-connection sample must not reconcile to proxy enabled")
	}
	if eff.EffectiveAutoConfigEnabled {
		t.Error("direct-connection sample must not reconcile to auto-config enabled")
	}
}

func TestDecode_ManualProxyWithBypass(t *testing.T) {
	buf := blob(
		le(70, 2, 0x03),
		strField("192.168.1.101:8080"),
		strField("*.company.com;<local>"),
		le(0), // auto-config URL absent
		zeros(32),
	)

	rec, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if rec.ProxyServer != "192.168.1.101:8080" {
		t.Errorf("ProxyServer = %q", rec.ProxyServer)
	}
	if rec.ProxyBypass != "*.company.com;<local>" {
		t.Errorf("ProxyBypass = %q", rec.ProxyBypass)
	}
	if rec.AutoConfigURL != "" {
		t.Errorf("AutoConfigURL = %q, want empty", rec.AutoConfigURL)
	}

	eff := Reconcile(*rec)
	if !eff.EffectiveProxyEnabled {
		t.Error("expected EffectiveProxyEnabled")
	}
	if eff.EffectiveAutoConfigEnabled {
		t.Error("did not expect EffectiveAutoConfigEnabled")
	}
}

func TestDecode_Legacy16Header(t *testing.T) {
	buf := blob(
		le(70, 5, 0x02, 0xDEADBEEF), // unknown field is implausible as a length
		strField("proxy.corp.example:3128"),
		le(0, 0),
		zeros(32),
	)

	rec, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if got := rec.LayoutName(); got != "legacy-16" {
		t.Errorf("LayoutName = %q, want legacy-16", got)
	}
	if !rec.HasUnknownField || rec.UnknownField != 0xDEADBEEF {
		t.Errorf("unknown field not preserved: has=%v value=%#x",
			rec.HasUnknownField, rec.UnknownField)
	}
	if rec.ProxyServer != "proxy.corp.example:3128" {
		t.Errorf("ProxyServer = %q", rec.ProxyServer)
	}
}

func TestDecode_Legacy28Header(t *testing.T) {
	server := "10.0.0.1:8080"
	pac := "http://wpad.example/wpad.dat"
	buf := blob(
		le(70, 9, 0x05, 7),                              // header + unknown
		le(uint32(len(server)+1), 0, uint32(len(pac)+1)), // three lengths up front
		[]byte(server), []byte{0},                       // data packed contiguously
		[]byte(pac), []byte{0},
		zeros(32),
	)

	rec, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if got := rec.LayoutName(); got != "legacy-28" {
		t.Errorf("LayoutName = %q, want legacy-28", got)
	}
	if rec.ProxyServer != server {
		t.Errorf("ProxyServer = %q, want %q", rec.ProxyServer, server)
	}
	if rec.ProxyBypass != "" {
		t.Errorf("ProxyBypass = %q, want empty", rec.ProxyBypass)
	}
	if rec.AutoConfigURL != pac {
		t.Errorf("AutoConfigURL = %q, want %q", rec.AutoConfigURL, pac)
	}
	if !rec.HasUnknownField || rec.UnknownField != 7 {
		t.Errorf("unknown field not preserved: has=%v value=%d",
			rec.HasUnknownField, rec.UnknownField)
	}
}

func TestDecode_TruncatedBuffers(t *testing.T) {
	full := scenarioA()
	for _, n := range []int{0, 1, 4, 8, 11} {
		_, err := Decode(full[:n])
		if err == nil {
			t.Fatalf("Decode accepted a %d-byte prefix", n)
		}
		if !errors.Is(err, ErrUnknownLayout) {
			t.Errorf("prefix %d: error %v does not match ErrUnknownLayout", n, err)
		}
	}
}

func TestDecode_LengthOverflow(t *testing.T) {
	// Declared 200-byte string with only 8 bytes behind it. The data bytes
	// are non-zero so no other candidate can claim the buffer either.
	buf := blob(le(70, 1, 0x02), le(200), []byte("ABCDEFGH"))

	_, err := Decode(buf)
	if err == nil {
		t.Fatal("Decode accepted an overflowing length")
	}
	if !errors.Is(err, ErrLengthOverflow) {
		t.Errorf("error %v does not match ErrLengthOverflow", err)
	}
	if !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("error %v does not match ErrUnknownLayout", err)
	}
}

func TestDecode_ImplausibleLength(t *testing.T) {
	// Declared length fits the buffer but is far past the sanity threshold:
	// corruption, not a valid large string.
	data := bytes.Repeat([]byte{0xEE}, 5000)
	buf := blob(le(70, 1, 0x02), le(5000), data)

	_, err := Decode(buf)
	if err == nil {
		t.Fatal("Decode accepted an implausible length")
	}
	if !errors.Is(err, ErrImplausibleLength) {
		t.Errorf("error %v does not match ErrImplausibleLength", err)
	}
}

func TestDecode_DirtyPadding(t *testing.T) {
	buf := scenarioA()
	buf[len(buf)-3] = 0x5A

	if _, err := Decode(buf); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("non-zero padding byte accepted: err=%v", err)
	}
}

func TestDecode_OverlongTail(t *testing.T) {
	buf := append(scenarioA(), zeros(10)...)

	if _, err := Decode(buf); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("42 zero trailing bytes accepted: err=%v", err)
	}
}

func TestDecode_ShortZeroTail(t *testing.T) {
	// Historically smaller samples carry less than the full 32-byte tail.
	buf := blob(le(70, 1, 0x01), le(0, 0, 0), zeros(8))

	rec, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode rejected short all-zero tail: %v", err)
	}
	if rec.RawFlags != 0x01 {
		t.Errorf("RawFlags = %#x, want 0x01", rec.RawFlags)
	}
}

func TestDecode_MissingTerminatorTolerated(t *testing.T) {
	server := "192.168.1.101:8080"
	buf := blob(
		le(70, 1, 0x02),
		le(uint32(len(server))), []byte(server), // no trailing NUL
		le(0, 0),
		zeros(32),
	)

	rec, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if rec.ProxyServer != server {
		t.Errorf("ProxyServer = %q, want %q", rec.ProxyServer, server)
	}
}

func TestDecode_LayoutErrorDiagnostics(t *testing.T) {
	_, err := Decode(make([]byte, 8))
	if err == nil {
		t.Fatal("expected an error for an 8-byte buffer")
	}

	var layoutErr *LayoutError
	if !errors.As(err, &layoutErr) {
		t.Fatalf("error %T is not a *LayoutError", err)
	}
	if layoutErr.BufferLen != 8 {
		t.Errorf("BufferLen = %d, want 8", layoutErr.BufferLen)
	}
	if len(layoutErr.Attempts) != len(layoutCandidates) {
		t.Errorf("Attempts = %d, want one per candidate (%d)",
			len(layoutErr.Attempts), len(layoutCandidates))
	}
	for _, a := range layoutErr.Attempts {
		if a.Err == nil {
			t.Errorf("attempt %s carries no failure", a.Candidate)
		}
	}
}
