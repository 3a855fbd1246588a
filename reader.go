package mpack

import (
	"bufio"
	"bytes"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// extChunk is the largest extension payload allocated up front on a stream;
// longer ones grow with the bytes actually received.
const extChunk = 64 << 10

// Reader unpacks MessagePack items from a source and tracks the first error.
// Once an error is latched every later operation returns it without touching
// the source, and any value assembled from further reads is not trustworthy.
//
// A Reader is single-owner: it must not be used from several goroutines at once.
type Reader struct {
	src      source
	dec      *msgpack.Decoder
	mem      *BytesReader // non-nil for memory-backed readers
	owned    io.Closer    // channel opened by this Reader, released by Close
	name     string       // path of the owned channel, for diagnostics
	err      error        // first error encountered.
	closed   bool
	closeErr error // result of the first Close
	exts     ExtRange
}

func newReader(s source) *Reader {
	return &Reader{src: s, dec: msgpack.NewDecoder(s), exts: DefaultExtRange}
}

// NewReader creates a memory-backed Reader. data is copied first, so the Reader
// does not depend on the caller's buffer once it is constructed.
func NewReader(data []byte) *Reader {
	return newMemoryReader(bytes.Clone(data))
}

func newMemoryReader(data []byte) *Reader {
	br := NewBytesReader(data)
	r := newReader(br)
	r.mem = br
	return r
}

// NewStreamReaderSize creates a Reader that borrows r: Close never closes it.
// The Reader buffers ahead, so bytes past the last decoded item may have been
// consumed from r.
func NewStreamReaderSize(r io.Reader, size int) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}

	switch reader := r.(type) {
	// prevent unpredictable double-buffering.
	case *bufio.Reader:
		if reader.Size() >= size {
			return newReader(&bufioReaderAdapter{reader}), nil
		}
		return nil, ErrAlreadyBuffered

	// underlying is a buf so we don't need buffering
	case *BytesReader:
		return newReader(reader), nil
	case *bytes.Reader:
		return newReader(&bytesReaderAdapter{reader}), nil
	case *bytes.Buffer:
		return newReader(&bytesBufferReaderAdapter{reader}), nil
	}

	if size < 16 {
		return nil, ErrSizeTooSmall
	}

	// default use bufio
	return newReader(&bufioReaderAdapter{bufio.NewReaderSize(r, size)}), nil
}

// NewStreamReader creates a borrowing stream Reader with a default buffer size.
func NewStreamReader(r io.Reader) (*Reader, error) {
	return NewStreamReaderSize(r, BUFFER_SIZE)
}

// WithExtRange sets the extension tags UnpackExt accepts and returns r for chaining.
func (r *Reader) WithExtRange(min, max int8) *Reader {
	r.exts = ExtRange{Min: min, Max: max}
	return r
}

func (r *Reader) Err() error { return r.err }
func (r *Reader) OK() bool   { return r.err == nil }

// IsEOF reports whether the Reader stopped at a clean end of input.
func (r *Reader) IsEOF() bool {
	return r.err != nil && errors.Is(r.err, io.EOF)
}

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// engine latches err as an engine failure and returns the Reader status.
func (r *Reader) engine(err error) error {
	if err != nil {
		r.setError(engineError(err))
	}
	return r.err
}

// Fail latches err on r, unless r already failed, and returns err itself so the
// caller keeps whatever context it wrapped around it. Conformances use it for
// checks of their own that make the rest of the input unusable.
func (r *Reader) Fail(err error) error {
	r.setError(err)
	return err
}

// Close releases the channel if this Reader opened it. A borrowed channel is never closed.
// Calling Close again returns the same result.
func (r *Reader) Close() error {
	if r.closed {
		return r.closeErr
	}
	r.closed = true
	if r.owned == nil {
		return nil
	}
	err := r.owned.Close()
	r.owned = nil
	log.Debugf("closed %s", r.name)
	if err != nil {
		r.closeErr = resourceError("close", r.name, err)
	}
	return r.closeErr
}

// Done reports whether the input has been consumed entirely. It returns
// ErrTrailingData if another item follows, and the latched error if r failed.
// Done does not latch anything.
func (r *Reader) Done() error {
	if r.err != nil {
		return r.err
	}
	if r.mem != nil {
		if n := r.mem.Available(); n > 0 {
			return errors.Wrapf(ErrTrailingData, "%d bytes left", n)
		}
		return nil
	}
	if _, err := r.dec.PeekCode(); err != io.EOF {
		if err != nil {
			return engineError(err)
		}
		return ErrTrailingData
	}
	return nil
}

// --- Primitive Unpack Operations ---

// notNil fails with a type error if the next item is nil, which the engine
// would otherwise read as the zero value of any scalar.
func (r *Reader) notNil(want string) error {
	c, err := r.dec.PeekCode()
	if err != nil {
		return r.engine(err)
	}
	if c == msgpcode.Nil {
		return r.Fail(engineError(errors.Errorf("nil where %s was expected", want)))
	}
	return nil
}

func (r *Reader) UnpackNil() error {
	if r.err != nil {
		return r.err
	}
	return r.engine(r.dec.DecodeNil())
}

func (r *Reader) UnpackBool() (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if err := r.notNil("bool"); err != nil {
		return false, err
	}
	v, err := r.dec.DecodeBool()
	return v, r.engine(err)
}

// UnpackInt reads any integer item as an int64.
func (r *Reader) UnpackInt() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if err := r.notNil("an integer"); err != nil {
		return 0, err
	}
	v, err := r.dec.DecodeInt64()
	return v, r.engine(err)
}

// UnpackUint reads any integer item as a uint64.
func (r *Reader) UnpackUint() (uint64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if err := r.notNil("an integer"); err != nil {
		return 0, err
	}
	v, err := r.dec.DecodeUint64()
	return v, r.engine(err)
}

// UnpackFloat64 reads a double, float or integer item as a float64.
func (r *Reader) UnpackFloat64() (float64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if err := r.notNil("a number"); err != nil {
		return 0, err
	}
	v, err := r.dec.DecodeFloat64()
	return v, r.engine(err)
}

// UnpackFloat32 reads a double, float or integer item, narrowed to a float32.
func (r *Reader) UnpackFloat32() (float32, error) {
	v, err := r.UnpackFloat64()
	return float32(v), err
}

func (r *Reader) UnpackString() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if err := r.notNil("a string"); err != nil {
		return "", err
	}
	v, err := r.dec.DecodeString()
	return v, r.engine(err)
}

// UnpackBytes reads a binary item. An empty binary yields an empty, non-nil slice.
func (r *Reader) UnpackBytes() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	if err := r.notNil("a binary"); err != nil {
		return nil, err
	}
	v, err := r.dec.DecodeBytes()
	return v, r.engine(err)
}

// UnpackArrayHeader reads an array header and returns its item count.
func (r *Reader) UnpackArrayHeader() (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.dec.DecodeArrayLen()
	if err != nil {
		return 0, r.engine(err)
	}
	if n < 0 {
		return 0, r.Fail(shapeError("nil where an array header was expected"))
	}
	return n, nil
}

// ExpectArrayHeader reads an array header that must declare exactly n items.
func (r *Reader) ExpectArrayHeader(n int) error {
	got, err := r.UnpackArrayHeader()
	if err != nil {
		return err
	}
	if got != n {
		return r.Fail(shapeError("array header declares %d items, want %d", got, n))
	}
	return nil
}

// UnpackMapHeader reads a map header and returns its pair count.
func (r *Reader) UnpackMapHeader() (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.dec.DecodeMapLen()
	if err != nil {
		return 0, r.engine(err)
	}
	if n < 0 {
		return 0, r.Fail(shapeError("nil where a map header was expected"))
	}
	return n, nil
}

// UnpackExt reads an extension item whose tag must lie in the Reader's
// accepted range (see WithExtRange).
func (r *Reader) UnpackExt() (int8, []byte, error) {
	tag, data, err := r.unpackExt()
	if err != nil {
		return 0, nil, err
	}
	if !r.exts.Contains(tag) {
		return 0, nil, r.Fail(shapeError("extension tag %d outside %s", tag, r.exts))
	}
	return tag, data, nil
}

// unpackExt reads any extension item, reserved tags included.
func (r *Reader) unpackExt() (int8, []byte, error) {
	if r.err != nil {
		return 0, nil, r.err
	}
	tag, n, err := r.dec.DecodeExtHeader()
	if err != nil {
		return 0, nil, r.engine(err)
	}
	data, err := r.readPayload(n)
	if err != nil {
		if err == io.EOF {
			// a header without its payload is a truncation, not a clean end.
			err = io.ErrUnexpectedEOF
		}
		return 0, nil, r.engine(err)
	}
	return tag, data, nil
}

// readPayload reads n raw bytes. The length comes off the wire, so nothing is
// allocated beyond what the input can actually deliver.
func (r *Reader) readPayload(n int) ([]byte, error) {
	if r.mem != nil {
		if n > r.mem.Available() {
			return nil, io.ErrUnexpectedEOF
		}
		data := make([]byte, n)
		_, err := io.ReadFull(r.src, data)
		return data, err
	}
	if n <= extChunk {
		data := make([]byte, n)
		_, err := io.ReadFull(r.src, data)
		return data, err
	}
	var buf bytes.Buffer
	buf.Grow(extChunk)
	if _, err := io.CopyN(&buf, r.src, int64(n)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnpackTime reads a timestamp item.
func (r *Reader) UnpackTime() (time.Time, error) {
	if r.err != nil {
		return time.Time{}, r.err
	}
	if err := r.notNil("a timestamp"); err != nil {
		return time.Time{}, err
	}
	v, err := r.dec.DecodeTime()
	return v, r.engine(err)
}

// Skip consumes the next n items whole, containers included.
func (r *Reader) Skip(n int) error {
	for i := 0; i < n && r.err == nil; i++ {
		r.engine(r.dec.Skip())
	}
	return r.err
}

// PeekKind reports the kind of the next item without consuming it.
func (r *Reader) PeekKind() (Kind, error) {
	if r.err != nil {
		return KindInvalid, r.err
	}
	c, err := r.dec.PeekCode()
	if err != nil {
		return KindInvalid, r.engine(err)
	}
	return kindOf(c), nil
}
