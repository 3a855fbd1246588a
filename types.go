package mpack

import (
	"bytes"
	"fmt"
)

// Nil packs as the nil item.
type Nil struct{}

func (Nil) Pack(w *Writer) { w.PackNil() }

func (*Nil) Unpack(r *Reader) error {
	return Decoding("Nil", r.UnpackNil())
}

// ArrayHeader declares how many items of an array follow. The count is not
// derived from anything: the writer must issue exactly Count items after it.
type ArrayHeader struct {
	Count int
}

func (h ArrayHeader) Pack(w *Writer) { w.PackArrayHeader(h.Count) }

func (h *ArrayHeader) Unpack(r *Reader) error {
	n, err := r.UnpackArrayHeader()
	if err != nil {
		return Decoding("ArrayHeader", err)
	}
	h.Count = n
	return nil
}

// MapHeader declares how many key/value pairs of a map follow.
type MapHeader struct {
	Count int
}

func (h MapHeader) Pack(w *Writer) { w.PackMapHeader(h.Count) }

func (h *MapHeader) Unpack(r *Reader) error {
	n, err := r.UnpackMapHeader()
	if err != nil {
		return Decoding("MapHeader", err)
	}
	h.Count = n
	return nil
}

// ExtRange is an inclusive range of extension type tags.
type ExtRange struct {
	Min, Max int8
}

// DefaultExtRange holds the tags MessagePack leaves to applications.
// Negative tags are reserved, -1 being the timestamp.
var DefaultExtRange = ExtRange{Min: 0, Max: 127}

func (e ExtRange) Contains(tag int8) bool { return tag >= e.Min && tag <= e.Max }
func (e ExtRange) String() string         { return fmt.Sprintf("%d..%d", e.Min, e.Max) }

// Ext is an application-defined extension payload. Its contents are opaque here.
type Ext struct {
	Type int8
	Data []byte
}

func (e Ext) Pack(w *Writer) { w.PackExt(e.Type, e.Data) }

func (e *Ext) Unpack(r *Reader) error {
	tag, data, err := r.UnpackExt()
	if err != nil {
		return Decoding("Ext", err)
	}
	*e = Ext{Type: tag, Data: data}
	return nil
}

func (e Ext) Equal(o Ext) bool { return e.Type == o.Type && bytes.Equal(e.Data, o.Data) }
