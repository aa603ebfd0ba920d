package codec

import (
	"encoding/binary"
	"fmt"
)

// SanityMaxStringLen bounds any declared string length, trailing NUL
// included. A larger value is treated as a corruption signal, not as a valid
// large string. Shared by the decode and encode paths.
const SanityMaxStringLen = 1000

// readUint32 extracts a little-endian uint32 at off without ever reading
// past the buffer.
func readUint32(buf []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(buf) {
		return 0, fmt.Errorf("%w: need 4 bytes at offset %d, buffer is %d", ErrOutOfBounds, off, len(buf))
	}
	return binary.LittleEndian.Uint32(buf[off:]), nil
}

// checkStringLen applies the shared sanity bounds to a declared string
// length whose data would start at dataOff: the data must fit the remaining
// buffer, and the length must stay under the implausibility threshold.
func checkStringLen(buf []byte, dataOff int, length uint32) error {
	if uint64(dataOff)+uint64(length) > uint64(len(buf)) {
		return fmt.Errorf("%w: %d bytes declared at offset %d, %d remain",
			ErrLengthOverflow, length, dataOff, len(buf)-dataOff)
	}
	if length > SanityMaxStringLen {
		return fmt.Errorf("%w: %d > %d", ErrImplausibleLength, length, SanityMaxStringLen)
	}
	return nil
}

// readStringField reads a length-prefixed ASCII run at off: a uint32 length
// L (terminator included) followed by L bytes. L == 0 means the field is
// absent and consumes only the prefix. One trailing NUL is stripped when
// present; samples missing the terminator are tolerated.
func readStringField(buf []byte, off int) (s string, n int, err error) {
	length, err := readUint32(buf, off)
	if err != nil {
		return "", 0, err
	}
	if length == 0 {
		return "", 4, nil
	}
	if err := checkStringLen(buf, off+4, length); err != nil {
		return "", 0, err
	}
	return trimTerminator(buf[off+4 : off+4+int(length)]), 4 + int(length), nil
}

// trimTerminator drops exactly one trailing NUL, if any.
func trimTerminator(b []byte) string {
	if n := len(b); n > 0 && b[n-1] == 0 {
		b = b[:n-1]
	}
	return string(b)
}

// appendUint32 is the writer counterpart of readUint32.
func appendUint32(buf []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(buf, v)
}

// appendStringField appends the length prefix, the ASCII bytes and one
// trailing NUL. Empty strings encode as a bare zero prefix. Values past the
// sanity bound are refused rather than truncated.
func appendStringField(buf []byte, s string) ([]byte, error) {
	if s == "" {
		return appendUint32(buf, 0), nil
	}
	if len(s)+1 > SanityMaxStringLen {
		return nil, fmt.Errorf("%w: %d bytes with terminator > %d", ErrValueTooLarge, len(s)+1, SanityMaxStringLen)
	}
	buf = appendUint32(buf, uint32(len(s)+1))
	buf = append(buf, s...)
	return append(buf, 0), nil
}
