// Package codec decodes and encodes the proxy connection settings blob: a
// variable-length binary record holding a version signature, a change
// counter, a flag bitfield and three length-prefixed ASCII strings (proxy
// server, bypass list, auto-config URL), closed by a zero padding tail.
//
// # Wire Format
//
// The canonical layout, and the only one the encoder produces:
//
//	offset  size  field
//	0x00    4     versionSignature (uint32 LE)
//	0x04    4     changeCounter    (uint32 LE)
//	0x08    4     rawFlags         (uint32 LE)
//	0x0C    4     proxyServerLen   (uint32 LE; 0 if absent)
//	0x10    N1    proxyServer      (ASCII + 1 NUL)
//	---     4     proxyBypassLen
//	---     N2    proxyBypass      (ASCII + 1 NUL)
//	---     4     autoConfigURLLen
//	---     N3    autoConfigURL    (ASCII + 1 NUL)
//	---     32    padding          (zero bytes)
//
// A string's length prefix counts the trailing NUL, so the logical length is
// prefix-1; a prefix of 0 means the field is absent rather than
// empty-with-terminator.
//
// # Layout Tolerance
//
// The format was never published by its producer, and observed samples
// disagree on header size: besides the canonical 12-byte header there are
// legacy shapes with a 16-byte header (one extra unknown uint32) and a
// 28-byte header (unknown uint32 plus all three string lengths up front,
// string data contiguous). Decode tries each known candidate in priority
// order and accepts one only when it fully consumes the buffer, with at most
// the 32-byte zero tail left over. A buffer no candidate explains yields
// ErrUnknownLayout rather than a best-effort guess.
//
// # Flag Reconciliation
//
// The raw flag bits alone proved unreliable across producer versions, so the
// enabled state exposed to callers combines each bit with the presence of
// its associated string: see Reconcile. The write path never performs the
// inverse inference; Encode emits RawFlags exactly as given.
//
// # Error Handling
//
// Malformed input is an expected condition. Every decode failure is an
// explicit wrapped error (ErrOutOfBounds, ErrLengthOverflow,
// ErrImplausibleLength, ErrUnknownLayout); the package never panics on bad
// bytes. Callers should treat any decode error as "stored configuration is
// absent", not as fatal.
//
// All functions are pure over their inputs; the package holds no state and
// is safe for concurrent use.
package codec
