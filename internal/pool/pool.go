// Package pool provides sync.Pool backed helpers for frequently allocated
// objects on the terminal output path.
package pool

import "sync"

// ByteSliceSize is the size of pooled byte slices, matching the read buffer
// size used for process host output.
const ByteSliceSize = 32 * 1024

var byteSlicePool = sync.Pool{
	New: func() any {
		b := make([]byte, ByteSliceSize)
		return &b
	},
}

// GetByteSlice returns a pooled byte slice of ByteSliceSize bytes.
func GetByteSlice() *[]byte {
	return byteSlicePool.Get().(*[]byte)
}

// PutByteSlice returns a byte slice to the pool.
func PutByteSlice(b *[]byte) {
	if b == nil || *b == nil {
		return
	}
	byteSlicePool.Put(b)
}
