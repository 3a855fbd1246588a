package mpack

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNilIO indicates that a stream Writer/Reader was requested over a nil io.Writer/io.Reader.
	ErrNilIO = errors.New("mpack: stream writer/reader requested over a nil io.Writer/io.Reader")

	// ErrSizeTooSmall indicates a size conflict with bufio
	ErrSizeTooSmall = errors.New("mpack: stream reader buffer smaller than 16 bytes conflicts with bufio")

	// ErrAlreadyBuffered indicates that a stream Writer/Reader was requested over an already-buffered
	// reader/writer whose buffer is too small, which would lead to double buffering.
	ErrAlreadyBuffered = errors.New("mpack: reader or writer is already buffered")

	// ErrInvalidUnread indicates an UnreadByte at the start of a BytesReader.
	ErrInvalidUnread = errors.New("mpack: UnreadByte at beginning of slice")

	// ErrTrailingData is returned when bytes remain after a message was fully decoded.
	ErrTrailingData = errors.New("mpack: trailing data found after decoding")

	// ErrResource indicates that the underlying channel could not be opened, flushed or released.
	ErrResource = errors.New("mpack: resource failure")

	// ErrEngine indicates that the MessagePack engine rejected an otherwise well-formed call:
	// malformed or truncated wire data, a sink that refused bytes, a size over the wire limits.
	ErrEngine = errors.New("mpack: engine failure")

	// ErrShape indicates a structural mismatch found by this package itself: a fixed
	// composite whose declared arity is wrong, an extension tag outside the accepted range,
	// nil where a header was required.
	ErrShape = errors.New("mpack: shape mismatch")
)

// DecodeError reports which conformance failed to decode.
type DecodeError struct {
	Type string // e.g. "Int8", "Slice", "geom.Rect"
	Err  error
}

func (e *DecodeError) Error() string { return "decode " + e.Type + ": " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// Decoding builds the error a conformance returns when its Unpack fails.
func Decoding(typ string, err error) error {
	if err == nil {
		return nil
	}
	return &DecodeError{Type: typ, Err: err}
}

// engineError keeps both ErrEngine and the engine's own cause reachable by errors.Is.
func engineError(err error) error {
	return fmt.Errorf("%w: %w", ErrEngine, err)
}

func resourceError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrResource, op, path, err)
}

func shapeError(format string, args ...any) error {
	return errors.Wrapf(ErrShape, format, args...)
}
