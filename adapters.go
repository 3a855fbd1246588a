package mpack

import (
	"bufio"
	"bytes"
	"io"
)

// sink is what a Writer hands to the engine: the engine needs WriteByte to avoid
// wrapping the sink in its own byte writer, and the Writer needs Flush and Close.
type sink interface {
	io.Writer
	io.ByteWriter
	Flush() error
	Close() error
}

// source is what a Reader hands to the engine. The engine only reads from the
// source directly when it is an io.ByteScanner, otherwise it adds a hidden
// bufio layer that would desynchronise raw payload reads.
type source interface {
	io.Reader
	io.ByteScanner
	Close() error
}

type (
	bytesReaderAdapter       struct{ *bytes.Reader }
	bytesBufferReaderAdapter struct{ *bytes.Buffer }
	bytesBufferWriterAdapter struct{ *bytes.Buffer }
	bufioWriterAdapter       struct{ *bufio.Writer }
	bufioReaderAdapter       struct{ *bufio.Reader }
)

var (
	_ sink   = (*bytesBufferWriterAdapter)(nil)
	_ sink   = (*bufioWriterAdapter)(nil)
	_ sink   = (*BytesWriter)(nil)
	_ source = (*bytesReaderAdapter)(nil)
	_ source = (*bytesBufferReaderAdapter)(nil)
	_ source = (*bufioReaderAdapter)(nil)
	_ source = (*BytesReader)(nil)
)

// Close never releases anything: the adapted value belongs to the caller.
func (r *bytesReaderAdapter) Close() error       { return nil }
func (r *bytesBufferReaderAdapter) Close() error { return nil }
func (r *bufioReaderAdapter) Close() error       { return nil }
func (w *bufioWriterAdapter) Close() error       { return nil }
func (w *bytesBufferWriterAdapter) Close() error { return nil }
func (w *bytesBufferWriterAdapter) Flush() error { return nil }
