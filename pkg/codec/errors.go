package codec

import (
	"errors"
	"fmt"
)

// Decode errors. Returned wrapped with positional detail; match with
// errors.Is.
var (
	ErrOutOfBounds       = errors.New("read past end of buffer")
	ErrLengthOverflow    = errors.New("declared string length exceeds remaining buffer")
	ErrImplausibleLength = errors.New("declared string length exceeds sanity threshold")
	ErrUnknownLayout     = errors.New("no known layout matches buffer")
)

// Encode errors.
var (
	ErrValueTooLarge = errors.New("string field exceeds sanity threshold")
)

// LayoutAttempt records how far one layout candidate got before rejecting
// the buffer.
type LayoutAttempt struct {
	Candidate string
	Offset    int // byte offset reached when the candidate failed
	Err       error
}

// LayoutError reports that no layout candidate fully and plausibly consumed
// the buffer. It carries the buffer length and every candidate's failure so
// a new sample can be diagnosed before anyone adds a candidate for it; the
// Error text quotes the attempt that got furthest.
type LayoutError struct {
	BufferLen int
	Attempts  []LayoutAttempt
}

// closest returns the attempt that reached the highest offset.
func (e *LayoutError) closest() *LayoutAttempt {
	if len(e.Attempts) == 0 {
		return nil
	}
	best := &e.Attempts[0]
	for i := range e.Attempts[1:] {
		if e.Attempts[i+1].Offset > best.Offset {
			best = &e.Attempts[i+1]
		}
	}
	return best
}

func (e *LayoutError) Error() string {
	if a := e.closest(); a != nil {
		return fmt.Sprintf("no known layout matches %d-byte buffer (closest %s at offset %d: %v)",
			e.BufferLen, a.Candidate, a.Offset, a.Err)
	}
	return fmt.Sprintf("no known layout matches %d-byte buffer", e.BufferLen)
}

// Unwrap exposes the UnknownLayout kind plus each candidate's failure, so
// errors.Is matches the specific kind (out of bounds, length overflow,
// implausible length) that sank the parse.
func (e *LayoutError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts)+1)
	errs = append(errs, ErrUnknownLayout)
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}
