package mpack

import (
	"bufio"
	"encoding/hex"
	"io"
	"strconv"
	"strings"
	"time"
)

// Dump writes a human-readable rendering of every item left in r to dst, one
// top-level item per line:
//
//	nil true 42 -7 1.5 "text" <0102> [1 2] {"a":1} '2024-01-02T03:04:05Z' (5,<0102>)
//
// It stops at the end of input or at the first failure, which is returned.
// Containers nested deeper than 512 levels fail with ErrShape.
func Dump(dst io.Writer, r *Reader) error {
	return DumpIndent(dst, r, "")
}

// DumpIndent is like Dump but puts every array element and map pair on its own
// line, indented by one copy of indent per nesting level.
func DumpIndent(dst io.Writer, r *Reader, indent string) error {
	d := &dumper{w: bufio.NewWriter(dst), r: r, indent: indent}
	for !r.atEOF() {
		if err := d.item(0); err != nil {
			d.w.Flush()
			return err
		}
		d.w.WriteByte('\n')
	}
	if r.err != nil {
		return r.err
	}
	return d.w.Flush()
}

// atEOF peeks for a clean end of input without latching it.
func (r *Reader) atEOF() bool {
	if r.err != nil {
		return true
	}
	_, err := r.dec.PeekCode()
	return err == io.EOF
}

type dumper struct {
	w      *bufio.Writer
	r      *Reader
	indent string
}

func (d *dumper) newline(level int) {
	if d.indent == "" {
		return
	}
	d.w.WriteByte('\n')
	d.w.WriteString(strings.Repeat(d.indent, level))
}

func (d *dumper) item(level int) error {
	k, err := d.r.PeekKind()
	if err != nil {
		return err
	}
	switch k {
	case KindArray:
		return d.array(level)
	case KindMap:
		return d.mapping(level)
	case KindExt:
		return d.ext()
	}

	v, err := d.r.UnpackAny()
	if err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		d.w.WriteString("nil")
	case bool:
		d.w.WriteString(strconv.FormatBool(v))
	case int64:
		d.w.WriteString(strconv.FormatInt(v, 10))
	case uint64:
		d.w.WriteString(strconv.FormatUint(v, 10))
	case float32:
		d.w.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	case float64:
		d.w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case string:
		d.w.WriteString(strconv.Quote(v))
	case []byte:
		d.blob(v)
	}
	return nil
}

func (d *dumper) blob(b []byte) {
	d.w.WriteByte('<')
	d.w.WriteString(hex.EncodeToString(b))
	d.w.WriteByte('>')
}

func (d *dumper) array(level int) error {
	if err := d.r.checkDepth(level + 1); err != nil {
		return err
	}
	n, err := d.r.UnpackArrayHeader()
	if err != nil {
		return err
	}
	d.w.WriteByte('[')
	for i := 0; i < n; i++ {
		if d.indent != "" {
			d.newline(level + 1)
		} else if i > 0 {
			d.w.WriteByte(' ')
		}
		if err := d.item(level + 1); err != nil {
			return err
		}
	}
	if n > 0 {
		d.newline(level)
	}
	d.w.WriteByte(']')
	return nil
}

func (d *dumper) mapping(level int) error {
	if err := d.r.checkDepth(level + 1); err != nil {
		return err
	}
	n, err := d.r.UnpackMapHeader()
	if err != nil {
		return err
	}
	d.w.WriteByte('{')
	for i := 0; i < n; i++ {
		if d.indent != "" {
			d.newline(level + 1)
		} else if i > 0 {
			d.w.WriteByte(' ')
		}
		if err := d.item(level + 1); err != nil {
			return err
		}
		d.w.WriteByte(':')
		if err := d.item(level + 1); err != nil {
			return err
		}
	}
	if n > 0 {
		d.newline(level)
	}
	d.w.WriteByte('}')
	return nil
}

// ext renders timestamps as quoted RFC 3339 in UTC and every other extension
// as its tag and payload, registered decoders notwithstanding.
func (d *dumper) ext() error {
	tag, data, err := d.r.unpackExt()
	if err != nil {
		return err
	}
	if tag == timestampExt {
		t, err := decodeTimestamp(data)
		if err != nil {
			return d.r.Fail(err)
		}
		d.w.WriteByte('\'')
		d.w.WriteString(t.UTC().Format(time.RFC3339Nano))
		d.w.WriteByte('\'')
		return nil
	}
	d.w.WriteByte('(')
	d.w.WriteString(strconv.Itoa(int(tag)))
	d.w.WriteByte(',')
	d.blob(data)
	d.w.WriteByte(')')
	return nil
}
