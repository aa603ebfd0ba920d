package store

import (
	"errors"
	"fmt"

	"github.com/connset/connset/pkg/codec"
)

// Current reads and decodes the stored blob and reconciles the effective
// enabled states. ErrNoSettings passes through; a blob that fails to decode
// is returned as the decode error so the caller can decide whether to
// surface or default it.
func Current(s Store) (codec.Record, error) {
	raw, err := s.RawBytes()
	if err != nil {
		return codec.Record{}, err
	}
	rec, err := codec.Decode(raw)
	if err != nil {
		return codec.Record{}, fmt.Errorf("stored blob is unreadable: %w", err)
	}
	return codec.Reconcile(*rec), nil
}

// Update runs one read-decode-modify-encode-write cycle against s. The
// change counter policy lives here, not in the codec: it is incremented on
// every write. A stored blob that fails to decode is treated as absent and
// replaced by a fresh default record; decode errors are an expected
// condition, never fatal to the caller.
//
// The cycle is not atomic across processes. Concurrent writers race and the
// last write wins at the storage layer.
func Update(s Store, modify func(codec.Record) codec.Record) (codec.Record, error) {
	current := codec.Record{VersionSignature: codec.DefaultVersionSignature}

	raw, err := s.RawBytes()
	switch {
	case err == nil:
		if rec, decodeErr := codec.Decode(raw); decodeErr == nil {
			current = *rec
		}
	case errors.Is(err, ErrNoSettings):
		// First write; start from the default record.
	default:
		return codec.Record{}, err
	}

	next := modify(codec.Reconcile(current))
	next.ChangeCounter = current.ChangeCounter + 1

	buf, err := codec.Encode(&next)
	if err != nil {
		return codec.Record{}, err
	}
	if err := s.SetRawBytes(buf); err != nil {
		return codec.Record{}, err
	}
	return codec.Reconcile(next), nil
}
