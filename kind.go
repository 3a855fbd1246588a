package mpack

import "github.com/vmihailenco/msgpack/v5/msgpcode"

// Kind is the class of a wire item, as seen from its leading code byte.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNil
	KindBool
	KindInt  // negative fixnum or a signed integer item
	KindUint // positive fixnum or an unsigned integer item
	KindFloat32
	KindFloat64
	KindString
	KindBinary
	KindArray
	KindMap
	KindExt // extension items, timestamps included
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindNil:     "nil",
	KindBool:    "bool",
	KindInt:     "int",
	KindUint:    "uint",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindString:  "string",
	KindBinary:  "binary",
	KindArray:   "array",
	KindMap:     "map",
	KindExt:     "ext",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

func kindOf(c byte) Kind {
	switch {
	case c <= msgpcode.PosFixedNumHigh:
		return KindUint
	case c >= msgpcode.NegFixedNumLow:
		return KindInt
	case c >= msgpcode.FixedMapLow && c <= msgpcode.FixedMapHigh:
		return KindMap
	case c >= msgpcode.FixedArrayLow && c <= msgpcode.FixedArrayHigh:
		return KindArray
	case c >= msgpcode.FixedStrLow && c <= msgpcode.FixedStrHigh:
		return KindString
	}

	switch c {
	case msgpcode.Nil:
		return KindNil
	case msgpcode.False, msgpcode.True:
		return KindBool
	case msgpcode.Float:
		return KindFloat32
	case msgpcode.Double:
		return KindFloat64
	case msgpcode.Uint8, msgpcode.Uint16, msgpcode.Uint32, msgpcode.Uint64:
		return KindUint
	case msgpcode.Int8, msgpcode.Int16, msgpcode.Int32, msgpcode.Int64:
		return KindInt
	case msgpcode.Str8, msgpcode.Str16, msgpcode.Str32:
		return KindString
	case msgpcode.Bin8, msgpcode.Bin16, msgpcode.Bin32:
		return KindBinary
	case msgpcode.Array16, msgpcode.Array32:
		return KindArray
	case msgpcode.Map16, msgpcode.Map32:
		return KindMap
	case msgpcode.FixExt1, msgpcode.FixExt2, msgpcode.FixExt4, msgpcode.FixExt8, msgpcode.FixExt16,
		msgpcode.Ext8, msgpcode.Ext16, msgpcode.Ext32:
		return KindExt
	}
	return KindInvalid
}
