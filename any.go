package mpack

import (
	"reflect"
	"time"

	"github.com/pkg/errors"
)

const timestampExt int8 = -1

// maxDepth bounds container nesting in UnpackAny and Dump.
const maxDepth = 512

// UnpackAny reads the next item whatever its kind and returns it as a Go value:
// nil, bool, int64, uint64, float32, float64, string, []byte, []any,
// map[any]any, time.Time, the value of a registered ExtDecoder, or Ext.
// Extension tags are not checked against the Reader's range here.
// Containers nested deeper than maxDepth fail with ErrShape.
func (r *Reader) UnpackAny() (any, error) {
	return r.unpackAny(0)
}

func (r *Reader) unpackAny(depth int) (any, error) {
	k, err := r.PeekKind()
	if err != nil {
		return nil, err
	}
	switch k {
	case KindNil:
		return nil, r.UnpackNil()
	case KindBool:
		return r.UnpackBool()
	case KindInt:
		return r.UnpackInt()
	case KindUint:
		return r.UnpackUint()
	case KindFloat32:
		return r.UnpackFloat32()
	case KindFloat64:
		return r.UnpackFloat64()
	case KindString:
		return r.UnpackString()
	case KindBinary:
		return r.UnpackBytes()
	case KindArray:
		return r.unpackAnyArray(depth + 1)
	case KindMap:
		return r.unpackAnyMap(depth + 1)
	case KindExt:
		return r.unpackAnyExt()
	}
	return nil, r.Fail(errors.Wrapf(ErrEngine, "unknown item kind %s", k))
}

func (r *Reader) checkDepth(depth int) error {
	if depth > maxDepth {
		return r.Fail(shapeError("nesting deeper than %d levels", maxDepth))
	}
	return nil
}

func (r *Reader) unpackAnyArray(depth int) ([]any, error) {
	if err := r.checkDepth(depth); err != nil {
		return nil, err
	}
	n, err := r.UnpackArrayHeader()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		v, err := r.unpackAny(depth)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *Reader) unpackAnyMap(depth int) (map[any]any, error) {
	if err := r.checkDepth(depth); err != nil {
		return nil, err
	}
	n, err := r.UnpackMapHeader()
	if err != nil {
		return nil, err
	}
	out := make(map[any]any, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		k, err := r.unpackAny(depth)
		if err != nil {
			return nil, err
		}
		// a []byte or container key would panic on insertion.
		if t := reflect.TypeOf(k); t != nil && !t.Comparable() {
			return nil, r.Fail(shapeError("map key of type %s is not comparable", t))
		}
		v, err := r.unpackAny(depth)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (r *Reader) unpackAnyExt() (any, error) {
	tag, data, err := r.unpackExt()
	if err != nil {
		return nil, err
	}
	if tag == timestampExt {
		t, err := decodeTimestamp(data)
		if err != nil {
			return nil, r.Fail(err)
		}
		return t, nil
	}
	if fn, ok := extDecoders.Load(tag); ok {
		v, err := fn(data)
		if err != nil {
			return nil, r.Fail(errors.Wrapf(err, "extension %d", tag))
		}
		return v, nil
	}
	return Ext{Type: tag, Data: data}, nil
}

// decodeTimestamp parses the payload of a timestamp extension in its 32, 64 or
// 96 bit layout.
func decodeTimestamp(data []byte) (time.Time, error) {
	switch len(data) {
	case 4:
		return time.Unix(int64(Order.Uint32(data)), 0), nil
	case 8:
		n := Order.Uint64(data)
		return time.Unix(int64(n&0x3ffffffff), int64(n>>34)), nil
	case 12:
		nsec := Order.Uint32(data)
		return time.Unix(int64(Order.Uint64(data[4:])), int64(nsec)), nil
	}
	return time.Time{}, shapeError("timestamp payload of %d bytes", len(data))
}
