package mpack

import (
	"encoding/binary"
	"math"

	"github.com/puzpuzpuz/xsync/v4"
)

// Order is the byte order of numeric extension payloads.
var Order = binary.BigEndian

// --- Numeric extensions ---
//
// A numeric extension carries one number as its payload: integers take 1, 2, 4
// or 8 big-endian bytes, the fewest that hold the value; floats take 4 and
// doubles 8. The tag tells the application what the number means.

// PackExtInt packs v as an extension item with the given tag.
func (w *Writer) PackExtInt(tag int8, v int64) {
	var buf [8]byte
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		buf[0] = byte(v)
		w.PackExt(tag, buf[:1])
	case v >= math.MinInt16 && v <= math.MaxInt16:
		Order.PutUint16(buf[:2], uint16(v))
		w.PackExt(tag, buf[:2])
	case v >= math.MinInt32 && v <= math.MaxInt32:
		Order.PutUint32(buf[:4], uint32(v))
		w.PackExt(tag, buf[:4])
	default:
		Order.PutUint64(buf[:], uint64(v))
		w.PackExt(tag, buf[:])
	}
}

func (w *Writer) PackExtFloat32(tag int8, v float32) {
	var buf [4]byte
	Order.PutUint32(buf[:], math.Float32bits(v))
	w.PackExt(tag, buf[:])
}

func (w *Writer) PackExtFloat64(tag int8, v float64) {
	var buf [8]byte
	Order.PutUint64(buf[:], math.Float64bits(v))
	w.PackExt(tag, buf[:])
}

// UnpackExtInt reads an integer extension and returns its tag and value.
// An empty payload is zero.
func (r *Reader) UnpackExtInt() (int8, int64, error) {
	tag, data, err := r.UnpackExt()
	if err != nil {
		return 0, 0, err
	}
	switch len(data) {
	case 0:
		return tag, 0, nil
	case 1:
		return tag, int64(int8(data[0])), nil
	case 2:
		return tag, int64(int16(Order.Uint16(data))), nil
	case 4:
		return tag, int64(int32(Order.Uint32(data))), nil
	case 8:
		return tag, int64(Order.Uint64(data)), nil
	}
	return 0, 0, r.Fail(shapeError("integer extension payload of %d bytes", len(data)))
}

func (r *Reader) UnpackExtFloat32() (int8, float32, error) {
	tag, data, err := r.UnpackExt()
	if err != nil {
		return 0, 0, err
	}
	if len(data) != 4 {
		return 0, 0, r.Fail(shapeError("float extension payload of %d bytes, want 4", len(data)))
	}
	return tag, math.Float32frombits(Order.Uint32(data)), nil
}

func (r *Reader) UnpackExtFloat64() (int8, float64, error) {
	tag, data, err := r.UnpackExt()
	if err != nil {
		return 0, 0, err
	}
	if len(data) != 8 {
		return 0, 0, r.Fail(shapeError("double extension payload of %d bytes, want 8", len(data)))
	}
	return tag, math.Float64frombits(Order.Uint64(data)), nil
}

// --- Extension registry ---

// ExtDecoder turns the payload of an extension item into a Go value.
type ExtDecoder func(data []byte) (any, error)

// extDecoders is consulted by UnpackAny. Registration may happen from any
// goroutine, so a concurrent map is used.
var extDecoders = xsync.NewMap[int8, ExtDecoder]()

// RegisterExt makes UnpackAny decode extension items tagged tag with fn instead
// of returning them as Ext. Registering a tag again replaces its decoder.
func RegisterExt(tag int8, fn ExtDecoder) {
	if fn == nil {
		panic("mpack: RegisterExt called with a nil ExtDecoder")
	}
	extDecoders.Store(tag, fn)
}

// UnregisterExt removes the decoder registered for tag, if any.
func UnregisterExt(tag int8) {
	extDecoders.Delete(tag)
}
