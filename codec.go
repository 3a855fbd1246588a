package mpack

// Packable is implemented by values that can write themselves to a Writer.
// Pack never returns an error: a failure latches on the Writer and every later
// operation on it becomes a no-op.
type Packable interface {
	Pack(w *Writer)
}

// Unpackable is implemented by pointers that can fill themselves from a Reader.
// On failure the receiver is left untouched and the returned error names the
// conformance that failed.
type Unpackable interface {
	Unpack(r *Reader) error
}

// Codec is the pointer constraint used by the generic helpers: T is a value type
// whose pointer packs and unpacks. It lets callers write UnpackSlice[Int](r)
// and have *Int inferred.
type Codec[T any] interface {
	*T
	Packable
	Unpackable
}

// Put packs each value in order and returns w for chaining.
// Once w has failed the remaining values are skipped.
func (w *Writer) Put(vs ...Packable) *Writer {
	for _, v := range vs {
		if w.err != nil {
			break
		}
		v.Pack(w)
	}
	return w
}

// Get unpacks into each destination in order and returns r for chaining.
// It stops at the first failure, which stays latched in r.Err().
func (r *Reader) Get(dsts ...Unpackable) *Reader {
	for _, dst := range dsts {
		if r.err != nil {
			break
		}
		r.setError(dst.Unpack(r))
	}
	return r
}

// Unpack constructs a T by consuming it from r.
func Unpack[T any, P Codec[T]](r *Reader) (T, error) {
	var v T
	if r.err != nil {
		return v, r.err
	}
	if err := P(&v).Unpack(r); err != nil {
		r.setError(err)
		var zero T
		return zero, err
	}
	return v, nil
}
