package mpack

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// BUFFER_SIZE is the default buffer size of stream Writers and Readers.
const BUFFER_SIZE = 4096

// Writer packs MessagePack items into a sink and tracks the first error that occurs.
// After an error, all subsequent pack operations become no-ops; the failure
// surfaces through Err, Flush or Close.
//
// A Writer is single-owner: it must not be used from several goroutines at once.
type Writer struct {
	sink     sink
	enc      *msgpack.Encoder
	mem      *bytes.Buffer // non-nil for memory-backed writers
	owned    io.Closer     // channel opened by this Writer, released by Close
	name     string        // path of the owned channel, for diagnostics
	err      error         // first error encountered. Subsequent writes become no-ops.
	closed   bool
	floatOpt bool
}

func newWriter(s sink) *Writer {
	return &Writer{sink: s, enc: msgpack.NewEncoder(s), floatOpt: true}
}

// NewWriter creates a memory-backed Writer over an internally owned, growing buffer.
// The packed message is available from Bytes once all values are written.
func NewWriter() *Writer {
	return newMemoryWriter(new(bytes.Buffer))
}

func newMemoryWriter(buf *bytes.Buffer) *Writer {
	w := newWriter(&bytesBufferWriterAdapter{buf})
	w.mem = buf
	return w
}

// NewStreamWriterSize creates a Writer that borrows w: Close flushes but never closes it.
// It returns an error to prevent double-buffering, a common source of bugs.
func NewStreamWriterSize(w io.Writer, size int) (*Writer, error) {
	if w == nil {
		return nil, ErrNilIO
	}

	switch bw := w.(type) {
	// prevent unpredictable double-buffering.
	case *bufio.Writer:
		if bw.Size() >= size {
			return newWriter(&bufioWriterAdapter{bw}), nil
		}
		return nil, ErrAlreadyBuffered

	// underlying is a buf so we don't need buffering
	case *BytesWriter:
		return newWriter(bw), nil
	case *bytes.Buffer:
		return newWriter(&bytesBufferWriterAdapter{bw}), nil
	}

	// default use bufio
	return newWriter(&bufioWriterAdapter{bufio.NewWriterSize(w, size)}), nil
}

// NewStreamWriter creates a borrowing stream Writer with a default buffer size.
func NewStreamWriter(w io.Writer) (*Writer, error) {
	return NewStreamWriterSize(w, BUFFER_SIZE)
}

// WithFloatOptimization sets whether floats are packed in the smallest item
// that reproduces them exactly, and returns w for chaining. It is on by default.
func (w *Writer) WithFloatOptimization(on bool) *Writer {
	w.floatOpt = on
	return w
}

func (w *Writer) Err() error { return w.err }
func (w *Writer) OK() bool   { return w.err == nil }

// Bytes returns the packed message of a memory-backed Writer, nil otherwise.
// The slice aliases the Writer's buffer until the next write.
func (w *Writer) Bytes() []byte {
	if w.mem == nil {
		return nil
	}
	return w.mem.Bytes()
}

// Len returns the number of packed bytes held by a memory-backed Writer.
func (w *Writer) Len() int {
	if w.mem == nil {
		return 0
	}
	return w.mem.Len()
}

// setError records the first non-nil error.
// This preserves the root cause of a failure chain instead of a later,
// less relevant error.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

func (w *Writer) engine(err error) {
	if err != nil {
		w.setError(engineError(err))
	}
}

// Flush writes any buffered data to the underlying channel.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.sink.Flush(); err != nil {
		w.engine(err)
	}
	return w.err
}

// Close flushes the Writer and, if it opened its channel itself, closes it.
// A borrowed channel is never closed. Calling Close again returns the same status.
func (w *Writer) Close() error {
	if w.closed {
		return w.err
	}
	w.closed = true
	err := w.Flush()
	if w.owned == nil {
		return err
	}
	cerr := w.owned.Close()
	w.owned = nil
	log.Debugf("closed %s", w.name)
	if cerr == nil {
		return err
	}
	if err != nil {
		log.Warningf("close %s after failed flush: %v", w.name, cerr)
		return err
	}
	w.setError(resourceError("close", w.name, cerr))
	return w.err
}

// --- Primitive Pack Operations ---

func (w *Writer) PackNil() {
	if w.err != nil {
		return
	}
	w.engine(w.enc.EncodeNil())
}

func (w *Writer) PackBool(v bool) {
	if w.err != nil {
		return
	}
	w.engine(w.enc.EncodeBool(v))
}

// PackInt packs v in the smallest integer item that holds it.
func (w *Writer) PackInt(v int64) {
	if w.err != nil {
		return
	}
	w.engine(w.enc.EncodeInt(v))
}

// PackUint packs v in the smallest integer item that holds it.
func (w *Writer) PackUint(v uint64) {
	if w.err != nil {
		return
	}
	w.engine(w.enc.EncodeUint(v))
}

// PackFloat32 packs v as a float item. With float optimization on, an integral
// value within int16..uint16 is packed as an integer instead.
func (w *Writer) PackFloat32(v float32) {
	if w.err != nil {
		return
	}
	if w.floatOpt && isIntegral(float64(v), math.MinInt16, math.MaxUint16) {
		w.engine(w.enc.EncodeInt(int64(v)))
		return
	}
	w.engine(w.enc.EncodeFloat32(v))
}

// PackFloat64 packs v as a double item. With float optimization on, an integral
// value within int32..uint32 is packed as an integer, and a value that a float32
// reproduces exactly is packed as a float item.
func (w *Writer) PackFloat64(v float64) {
	if w.err != nil {
		return
	}
	if w.floatOpt {
		if isIntegral(v, math.MinInt32, math.MaxUint32) {
			w.engine(w.enc.EncodeInt(int64(v)))
			return
		}
		if f := float32(v); float64(f) == v {
			w.engine(w.enc.EncodeFloat32(f))
			return
		}
	}
	w.engine(w.enc.EncodeFloat64(v))
}

// isIntegral reports whether v is a whole number in [lo, hi].
// NaN and negative zero are never integral here.
func isIntegral(v, lo, hi float64) bool {
	return v >= lo && v <= hi && v == math.Trunc(v) && !(v == 0 && math.Signbit(v))
}

func (w *Writer) PackString(v string) {
	if w.err != nil {
		return
	}
	w.engine(w.enc.EncodeString(v))
}

// PackBytes packs v as a binary item. A nil slice is packed as an empty binary, not nil.
func (w *Writer) PackBytes(v []byte) {
	if w.err != nil {
		return
	}
	if v == nil {
		v = []byte{}
	}
	w.engine(w.enc.EncodeBytes(v))
}

// PackArrayHeader declares that exactly n items follow.
func (w *Writer) PackArrayHeader(n int) {
	if w.err != nil {
		return
	}
	if n < 0 {
		w.setError(shapeError("negative array size %d", n))
		return
	}
	w.engine(w.enc.EncodeArrayLen(n))
}

// PackMapHeader declares that exactly n key/value pairs follow.
func (w *Writer) PackMapHeader(n int) {
	if w.err != nil {
		return
	}
	if n < 0 {
		w.setError(shapeError("negative map size %d", n))
		return
	}
	w.engine(w.enc.EncodeMapLen(n))
}

// PackExt packs an extension item with the given type tag and payload.
func (w *Writer) PackExt(tag int8, data []byte) {
	if w.err != nil {
		return
	}
	if err := w.enc.EncodeExtHeader(tag, len(data)); err != nil {
		w.engine(err)
		return
	}
	w.PackRaw(data)
}

// PackTime packs t as a timestamp item (extension type -1).
func (w *Writer) PackTime(t time.Time) {
	if w.err != nil {
		return
	}
	w.engine(w.enc.EncodeTime(t))
}

// PackRaw inserts already packed bytes verbatim.
func (w *Writer) PackRaw(data []byte) {
	if w.err != nil || len(data) == 0 {
		return
	}
	n, err := w.sink.Write(data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}
	w.engine(err)
}
