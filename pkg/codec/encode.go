package codec

// Encode serializes r using the canonical 12-byte-header layout, regardless
// of the shape r was decoded under; the legacy shapes are read-only. Length
// prefixes are recomputed from the current string values, each non-empty
// string is written as ASCII plus one trailing NUL, and a 32-byte zero tail
// closes the blob.
//
// RawFlags is written exactly as given. The write path never infers enabled
// bits from string presence; that inference belongs to the read path, in
// Reconcile, so a decode/encode cycle cannot mutate flag bits. Callers who
// want a bit to track a string they just set must set the bit themselves.
//
// A string past SanityMaxStringLen (terminator included) yields
// ErrValueTooLarge; values are never silently truncated.
func Encode(r *Record) ([]byte, error) {
	buf := make([]byte, 0, r.EncodedSize())
	buf = appendUint32(buf, r.VersionSignature)
	buf = appendUint32(buf, r.ChangeCounter)
	buf = appendUint32(buf, r.RawFlags)
	var err error
	for _, s := range []string{r.ProxyServer, r.ProxyBypass, r.AutoConfigURL} {
		if buf, err = appendStringField(buf, s); err != nil {
			return nil, err
		}
	}
	return append(buf, make([]byte, paddingTailSize)...), nil
}
