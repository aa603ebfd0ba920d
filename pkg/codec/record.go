package codec

// Flag bits within Record.RawFlags. Bits 4-31 are reserved; their meaning is
// unverified and they round-trip verbatim.
const (
	FlagDirect     uint32 = 1 << 0 // direct connection, no proxy
	FlagProxy      uint32 = 1 << 1 // manual proxy requested
	FlagAutoConfig uint32 = 1 << 2 // PAC URL requested
	FlagAutoDetect uint32 = 1 << 3 // WPAD auto-detection
)

// DefaultVersionSignature is the format marker observed constant across all
// samples. It is preserved verbatim on re-encode and never interpreted; it
// is exported only so callers constructing a fresh record can stamp it.
const DefaultVersionSignature uint32 = 70

// Record is the decoded connection settings blob. It is a plain value:
// mutation is modeled as copying, either directly or through the With*
// helpers, and nothing in this package retains a reference to one after
// returning it.
type Record struct {
	VersionSignature uint32
	ChangeCounter    uint32 // opaque counter; incrementing it is caller policy
	RawFlags         uint32

	// UnknownField is carried only by the legacy 16- and 28-byte headers
	// and is never interpreted. HasUnknownField distinguishes "absent under
	// this layout" from a stored zero. The canonical encode layout has no
	// slot for it, so it does not survive a re-encode.
	UnknownField    uint32
	HasUnknownField bool

	ProxyServer   string // host:port; empty means no server configured
	ProxyBypass   string // semicolon-delimited by convention; opaque here
	AutoConfigURL string // PAC URL; opaque here

	// Derived by Reconcile, not part of the wire format.
	EffectiveProxyEnabled      bool
	EffectiveAutoConfigEnabled bool

	layout *layout // candidate the record was decoded under; nil if constructed
}

// WithProxyServer returns a copy with the proxy server replaced.
func (r Record) WithProxyServer(s string) Record {
	r.ProxyServer = s
	return r
}

// WithProxyBypass returns a copy with the bypass list replaced.
func (r Record) WithProxyBypass(s string) Record {
	r.ProxyBypass = s
	return r
}

// WithAutoConfigURL returns a copy with the PAC URL replaced.
func (r Record) WithAutoConfigURL(s string) Record {
	r.AutoConfigURL = s
	return r
}

// WithFlag returns a copy with the given flag bit set or cleared. Other
// bits, including the reserved ones, are untouched.
func (r Record) WithFlag(bit uint32, on bool) Record {
	if on {
		r.RawFlags |= bit
	} else {
		r.RawFlags &^= bit
	}
	return r
}

// LayoutName reports which decode candidate produced r, or "canonical-12"
// for records built directly. Diagnostic only: an all-zero legacy sample
// can be explained by more than one candidate, so callers must not branch
// behavior on this.
func (r Record) LayoutName() string {
	if r.layout == nil {
		return layoutCandidates[0].name
	}
	return r.layout.name
}

// EncodedSize returns the byte length Encode will produce for r under the
// canonical layout.
func (r Record) EncodedSize() int {
	n := canonicalHeaderSize + paddingTailSize
	for _, s := range []string{r.ProxyServer, r.ProxyBypass, r.AutoConfigURL} {
		n += 4
		if s != "" {
			n += len(s) + 1
		}
	}
	return n
}
