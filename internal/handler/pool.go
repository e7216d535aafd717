package handler

import (
	"bytes"
	"sync"
)

const (
	bufferInitialSize = 512
	// bufferMaxPooled keeps oversized one-off responses out of the pool
	bufferMaxPooled = 64 << 10
)

// bufferPool reuses encode buffers across JSON responses.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, bufferInitialSize))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > bufferMaxPooled {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
