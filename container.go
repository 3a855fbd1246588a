package mpack

import (
	"github.com/pkg/errors"
)

// maxPrealloc bounds what a decoder allocates up front from a header count,
// which comes off the wire and cannot be trusted.
const maxPrealloc = 1024

// PackSlice packs s as an array header followed by each element in order.
func PackSlice[E Packable](w *Writer, s []E) {
	w.PackArrayHeader(len(s))
	for _, e := range s {
		if w.err != nil {
			return
		}
		e.Pack(w)
	}
}

// UnpackSlice reads an array header and exactly that many elements.
// Any failing element fails the whole slice; no partial result is returned.
func UnpackSlice[E any, P Codec[E]](r *Reader) ([]E, error) {
	n, err := r.UnpackArrayHeader()
	if err != nil {
		return nil, err
	}
	out := make([]E, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		var e E
		if err := P(&e).Unpack(r); err != nil {
			return nil, r.Fail(errors.Wrapf(err, "element %d of %d", i, n))
		}
		out = append(out, e)
	}
	return out, nil
}

// PackMap packs m as a map header followed by each key and its value.
// Pairs come out in map iteration order, which is unspecified.
func PackMap[K interface {
	comparable
	Packable
}, V Packable](w *Writer, m map[K]V) {
	w.PackMapHeader(len(m))
	for k, v := range m {
		if w.err != nil {
			return
		}
		k.Pack(w)
		v.Pack(w)
	}
}

// UnpackMap reads a map header and exactly that many key/value pairs.
// A key read twice keeps the later value.
func UnpackMap[K comparable, V any, PK Codec[K], PV Codec[V]](r *Reader) (map[K]V, error) {
	n, err := r.UnpackMapHeader()
	if err != nil {
		return nil, err
	}
	out := make(map[K]V, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		var (
			k K
			v V
		)
		if err := PK(&k).Unpack(r); err != nil {
			return nil, r.Fail(errors.Wrapf(err, "key %d of %d", i, n))
		}
		if err := PV(&v).Unpack(r); err != nil {
			return nil, r.Fail(errors.Wrapf(err, "value %d of %d", i, n))
		}
		out[k] = v
	}
	return out, nil
}

// Slice is a homogeneous sequence that packs as an array. It nests: a Slice
// of Slices is itself Packable and Unpackable.
type Slice[E any, P Codec[E]] []E

func (s Slice[E, P]) Pack(w *Writer) {
	w.PackArrayHeader(len(s))
	for i := range s {
		if w.err != nil {
			return
		}
		P(&s[i]).Pack(w)
	}
}

func (s *Slice[E, P]) Unpack(r *Reader) error {
	out, err := UnpackSlice[E, P](r)
	if err != nil {
		return Decoding("Slice", err)
	}
	*s = out
	return nil
}

// Map is a homogeneous key/value mapping that packs as a map.
type Map[K comparable, V any, PK Codec[K], PV Codec[V]] map[K]V

func (m Map[K, V, PK, PV]) Pack(w *Writer) {
	w.PackMapHeader(len(m))
	for k, v := range m {
		if w.err != nil {
			return
		}
		PK(&k).Pack(w)
		PV(&v).Pack(w)
	}
}

func (m *Map[K, V, PK, PV]) Unpack(r *Reader) error {
	out, err := UnpackMap[K, V, PK, PV](r)
	if err != nil {
		return Decoding("Map", err)
	}
	*m = out
	return nil
}
