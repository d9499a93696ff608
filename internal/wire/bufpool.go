package wire

import (
	"bytes"
	"sync"
)

// bytesBufPool reuses scratch buffers for assembling stream sections.
var bytesBufPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, BUFFER_SIZE))
	},
}

// GetBuffer returns an empty pooled buffer.
func GetBuffer() *bytes.Buffer {
	buf := bytesBufPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns buf to the pool. The caller must not retain any slice
// obtained from buf.Bytes().
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > 1<<24 {
		return
	}
	bytesBufPool.Put(buf)
}
