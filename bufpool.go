package mpack

import (
	"bytes"
	"sync"
)

// bytesBufPool reuses buffers for Marshal.
// This reduces GC pressure by avoiding frequent allocations. We pool *bytes.Buffer
// because they are easily reset and resized.
var bytesBufPool = sync.Pool{
	New: func() any {
		// A 4KB default is chosen to avoid re-allocations for common message sizes.
		return bytes.NewBuffer(make([]byte, 0, BUFFER_SIZE))
	},
}
