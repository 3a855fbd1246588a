package mpack

import "time"

// Scalar conformances. Each named type maps to exactly one wire item class.
type (
	Bool    bool
	Int     int
	Int8    int8
	Int16   int16
	Int32   int32
	Int64   int64
	Uint    uint
	Uint8   uint8
	Uint16  uint16
	Uint32  uint32
	Uint64  uint64
	Float32 float32
	Float64 float64
	String  string
	Bytes   []byte
)

// Time packs as a timestamp item, seconds and nanoseconds since the Unix epoch.
type Time struct {
	time.Time
}

func (v Bool) Pack(w *Writer) { w.PackBool(bool(v)) }

func (v *Bool) Unpack(r *Reader) error {
	b, err := r.UnpackBool()
	if err != nil {
		return Decoding("Bool", err)
	}
	*v = Bool(b)
	return nil
}

func (v Int) Pack(w *Writer)    { PackSigned(w, v) }
func (v Int8) Pack(w *Writer)   { PackSigned(w, v) }
func (v Int16) Pack(w *Writer)  { PackSigned(w, v) }
func (v Int32) Pack(w *Writer)  { PackSigned(w, v) }
func (v Int64) Pack(w *Writer)  { PackSigned(w, v) }
func (v Uint) Pack(w *Writer)   { PackUnsigned(w, v) }
func (v Uint8) Pack(w *Writer)  { PackUnsigned(w, v) }
func (v Uint16) Pack(w *Writer) { PackUnsigned(w, v) }
func (v Uint32) Pack(w *Writer) { PackUnsigned(w, v) }
func (v Uint64) Pack(w *Writer) { PackUnsigned(w, v) }

func (v *Int) Unpack(r *Reader) error    { return unpackSigned(r, v, "Int") }
func (v *Int8) Unpack(r *Reader) error   { return unpackSigned(r, v, "Int8") }
func (v *Int16) Unpack(r *Reader) error  { return unpackSigned(r, v, "Int16") }
func (v *Int32) Unpack(r *Reader) error  { return unpackSigned(r, v, "Int32") }
func (v *Int64) Unpack(r *Reader) error  { return unpackSigned(r, v, "Int64") }
func (v *Uint) Unpack(r *Reader) error   { return unpackUnsigned(r, v, "Uint") }
func (v *Uint8) Unpack(r *Reader) error  { return unpackUnsigned(r, v, "Uint8") }
func (v *Uint16) Unpack(r *Reader) error { return unpackUnsigned(r, v, "Uint16") }
func (v *Uint32) Unpack(r *Reader) error { return unpackUnsigned(r, v, "Uint32") }
func (v *Uint64) Unpack(r *Reader) error { return unpackUnsigned(r, v, "Uint64") }

func (v Float32) Pack(w *Writer) { w.PackFloat32(float32(v)) }

func (v *Float32) Unpack(r *Reader) error {
	f, err := r.UnpackFloat32()
	if err != nil {
		return Decoding("Float32", err)
	}
	*v = Float32(f)
	return nil
}

func (v Float64) Pack(w *Writer) { w.PackFloat64(float64(v)) }

func (v *Float64) Unpack(r *Reader) error {
	f, err := r.UnpackFloat64()
	if err != nil {
		return Decoding("Float64", err)
	}
	*v = Float64(f)
	return nil
}

func (v String) Pack(w *Writer) { w.PackString(string(v)) }

func (v *String) Unpack(r *Reader) error {
	s, err := r.UnpackString()
	if err != nil {
		return Decoding("String", err)
	}
	*v = String(s)
	return nil
}

func (v Bytes) Pack(w *Writer) { w.PackBytes(v) }

func (v *Bytes) Unpack(r *Reader) error {
	b, err := r.UnpackBytes()
	if err != nil {
		return Decoding("Bytes", err)
	}
	*v = b
	return nil
}

func (v Time) Pack(w *Writer) { w.PackTime(v.Time) }

func (v *Time) Unpack(r *Reader) error {
	t, err := r.UnpackTime()
	if err != nil {
		return Decoding("Time", err)
	}
	v.Time = t
	return nil
}
