package codec

import "fmt"

// Decode parses a connection settings blob. Each layout candidate is tried
// in priority order; a candidate is accepted only when every field reads in
// bounds and the bytes left after the third string are nothing but the zero
// padding tail (at most 32 bytes; older samples carry a shorter all-zero
// tail). Parsing without a bounds error is deliberately not enough to
// accept: full, plausible consumption is what guards against silently
// misreading a shape this package has never seen.
//
// When no candidate fits, the returned error is a *LayoutError wrapping
// ErrUnknownLayout plus each candidate's failure. The returned record
// carries raw fields only; see Reconcile for the effective enabled states.
func Decode(buf []byte) (*Record, error) {
	layoutErr := &LayoutError{BufferLen: len(buf)}
	for i := range layoutCandidates {
		l := &layoutCandidates[i]
		rec, consumed, err := decodeWith(l, buf)
		if err == nil {
			return rec, nil
		}
		layoutErr.Attempts = append(layoutErr.Attempts, LayoutAttempt{
			Candidate: l.name,
			Offset:    consumed,
			Err:       err,
		})
	}
	return nil, layoutErr
}

// decodeWith attempts a full parse of buf under one candidate. It returns
// the offset reached so Decode can rank failed attempts.
func decodeWith(l *layout, buf []byte) (*Record, int, error) {
	rec := &Record{layout: l}
	var err error
	if rec.VersionSignature, err = readUint32(buf, 0); err != nil {
		return nil, 0, err
	}
	if rec.ChangeCounter, err = readUint32(buf, 4); err != nil {
		return nil, 4, err
	}
	if rec.RawFlags, err = readUint32(buf, 8); err != nil {
		return nil, 8, err
	}
	if l.hasUnknown {
		if rec.UnknownField, err = readUint32(buf, 12); err != nil {
			return nil, 12, err
		}
		rec.HasUnknownField = true
	}

	var end int
	if l.upfrontLengths {
		end, err = readUpfrontStrings(l, buf, rec)
	} else {
		end, err = readInterleavedStrings(l, buf, rec)
	}
	if err != nil {
		return nil, end, err
	}
	if err := checkPaddingTail(buf, end); err != nil {
		return nil, end, err
	}
	return rec, end, nil
}

// readInterleavedStrings reads the canonical length+data sections starting
// at the end of the fixed header.
func readInterleavedStrings(l *layout, buf []byte, rec *Record) (int, error) {
	off := l.headerSize
	for _, dst := range []*string{&rec.ProxyServer, &rec.ProxyBypass, &rec.AutoConfigURL} {
		s, n, err := readStringField(buf, off)
		if err != nil {
			return off, err
		}
		*dst = s
		off += n
	}
	return off, nil
}

// readUpfrontStrings reads the 28-byte-header variant: three lengths at
// offsets 16, 20 and 24, then the string data packed contiguously from 28.
func readUpfrontStrings(l *layout, buf []byte, rec *Record) (int, error) {
	var lengths [3]uint32
	for i := range lengths {
		v, err := readUint32(buf, 16+4*i)
		if err != nil {
			return 16 + 4*i, err
		}
		lengths[i] = v
	}
	off := l.headerSize
	for i, dst := range []*string{&rec.ProxyServer, &rec.ProxyBypass, &rec.AutoConfigURL} {
		if lengths[i] == 0 {
			continue
		}
		if err := checkStringLen(buf, off, lengths[i]); err != nil {
			return off, err
		}
		*dst = trimTerminator(buf[off : off+int(lengths[i])])
		off += int(lengths[i])
	}
	return off, nil
}

// checkPaddingTail accepts a remainder of zero to 32 bytes, all zero.
// Anything longer, or any non-zero byte, means the candidate misread the
// buffer.
func checkPaddingTail(buf []byte, off int) error {
	rest := buf[off:]
	if len(rest) > paddingTailSize {
		return fmt.Errorf("%d trailing bytes exceed the %d-byte padding tail", len(rest), paddingTailSize)
	}
	for i, b := range rest {
		if b != 0 {
			return fmt.Errorf("non-zero byte 0x%02x in padding tail at offset %d", b, off+i)
		}
	}
	return nil
}
