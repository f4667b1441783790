package pool

import (
	"sync"
	"testing"
)

// TestByteSlicePool tests the byte slice pool
func TestByteSlicePool(t *testing.T) {
	buf := GetByteSlice()
	if buf == nil {
		t.Fatal("GetByteSlice returned nil")
	}
	if *buf == nil {
		t.Fatal("Byte slice is nil")
	}

	if len(*buf) != ByteSliceSize {
		t.Errorf("Expected byte slice length %d, got %d", ByteSliceSize, len(*buf))
	}

	copy(*buf, []byte("test data"))

	PutByteSlice(buf)

	buf2 := GetByteSlice()
	if buf2 == nil {
		t.Fatal("Second GetByteSlice returned nil")
	}

	PutByteSlice(buf2)
}

// TestByteSlicePool_Concurrent tests concurrent access to the byte slice pool
func TestByteSlicePool_Concurrent(t *testing.T) {
	const goroutines = 10
	const iterations = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				buf := GetByteSlice()
				if len(*buf) != ByteSliceSize {
					t.Errorf("Goroutine %d iteration %d: unexpected length %d", id, j, len(*buf))
				}
				(*buf)[0] = byte(j)
				PutByteSlice(buf)
			}
		}(i)
	}

	wg.Wait()
}

// TestByteSlicePool_NilSafe tests that returning nil values is safe
func TestByteSlicePool_NilSafe(t *testing.T) {
	PutByteSlice(nil)

	var empty []byte
	PutByteSlice(&empty)
}
