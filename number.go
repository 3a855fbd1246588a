package mpack

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// PackSigned packs any signed integer; the engine picks the smallest item that holds it.
func PackSigned[T constraints.Signed](w *Writer, v T) { w.PackInt(int64(v)) }

// PackUnsigned packs any unsigned integer; the engine picks the smallest item that holds it.
func PackUnsigned[T constraints.Unsigned](w *Writer, v T) { w.PackUint(uint64(v)) }

// PackFloat packs a float at the width of T, subject to the Writer's float optimization.
func PackFloat[T constraints.Float](w *Writer, v T) {
	var zero T
	if unsafe.Sizeof(zero) == 4 {
		w.PackFloat32(float32(v))
		return
	}
	w.PackFloat64(float64(v))
}

// UnpackSigned reads an integer item and narrows it to T.
// A wire value outside T's range is truncated, not reported.
func UnpackSigned[T constraints.Signed](r *Reader) (T, error) {
	v, err := r.UnpackInt()
	return T(v), err
}

// UnpackUnsigned reads an integer item and narrows it to T.
func UnpackUnsigned[T constraints.Unsigned](r *Reader) (T, error) {
	v, err := r.UnpackUint()
	return T(v), err
}

// UnpackFloat reads any numeric item and converts it to T, whatever width was on the wire.
func UnpackFloat[T constraints.Float](r *Reader) (T, error) {
	v, err := r.UnpackFloat64()
	return T(v), err
}

func unpackSigned[T constraints.Signed](r *Reader, dst *T, typ string) error {
	v, err := UnpackSigned[T](r)
	if err != nil {
		return Decoding(typ, err)
	}
	*dst = v
	return nil
}

func unpackUnsigned[T constraints.Unsigned](r *Reader, dst *T, typ string) error {
	v, err := UnpackUnsigned[T](r)
	if err != nil {
		return Decoding(typ, err)
	}
	*dst = v
	return nil
}
