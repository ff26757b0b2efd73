package util

import "sync"

// BufPool provides reusable byte buffers for I/O hot paths (line
// scanning in the shipper loop), reducing GC pressure.
var BufPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, DefaultBufSize)
		return &buf
	},
}

// GetBuf retrieves a buffer from the pool.  Callers must return it
// with [PutBuf] when finished.
func GetBuf() *[]byte {
	return BufPool.Get().(*[]byte)
}

// PutBuf returns a buffer to the pool for reuse.
func PutBuf(buf *[]byte) {
	if buf == nil {
		return
	}
	BufPool.Put(buf)
}
