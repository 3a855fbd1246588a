package mpack

import (
	"bytes"
	"io"
)

// Marshal packs v into a new byte slice.
func Marshal(v Packable) ([]byte, error) {
	buf := bytesBufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bytesBufPool.Put(buf)

	w := newMemoryWriter(buf)
	v.Pack(w)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// MarshalInto packs v into p without allocating and returns the number of bytes
// written. It fails with io.ErrShortWrite if p is too small.
func MarshalInto(p []byte, v Packable) (int, error) {
	bw := NewBytesWriter(p)
	w := newWriter(bw)
	v.Pack(w)
	return bw.Len(), w.Err()
}

// Unmarshal decodes a T from data, which must hold exactly one T.
// Bytes left over fail with ErrTrailingData.
func Unmarshal[T any, P Codec[T]](data []byte) (T, error) {
	// data is only read while Unmarshal runs, so the copy NewReader makes is skipped.
	r := newMemoryReader(data)
	v, err := Unpack[T, P](r)
	if err != nil {
		return v, err
	}
	if err := r.Done(); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Encode packs v onto dst and flushes. dst is not closed.
func Encode(dst io.Writer, v Packable) error {
	w, err := NewStreamWriter(dst)
	if err != nil {
		return err
	}
	v.Pack(w)
	return w.Flush()
}

// Decode reads one T from src. Like any stream Reader it may buffer past the
// end of that T, so src should hold nothing else the caller needs.
func Decode[T any, P Codec[T]](src io.Reader) (T, error) {
	r, err := NewStreamReader(src)
	if err != nil {
		var zero T
		return zero, err
	}
	return Unpack[T, P](r)
}
