// Package pool provides reusable I/O buffers for file copy operations.
//
// sync.Pool caches allocated but unused objects for later reuse, relieving
// pressure on the garbage collector. Items may be dropped at any GC cycle,
// which makes it suitable for short-lived copy buffers but not for
// persistent resources.
package pool

import "sync"

// FixedBufferPool hands out byte slices of a single fixed size.
// Pointers to slices are pooled to avoid an allocation per Get/Put cycle.
type FixedBufferPool struct {
	size int64
	pool sync.Pool
}

// NewFixedBuffer creates a pool of buffers of exactly 'size' bytes.
func NewFixedBuffer(size int64) *FixedBufferPool {
	return &FixedBufferPool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				b := make([]byte, int(size))
				return &b
			},
		},
	}
}

// Get retrieves a buffer from the pool, allocating a fresh one if empty.
func (fp *FixedBufferPool) Get() *[]byte {
	return fp.pool.Get().(*[]byte)
}

// Put returns a buffer to the pool. Buffers whose capacity no longer
// matches the pool size are discarded.
func (fp *FixedBufferPool) Put(b *[]byte) {
	if b == nil || int64(cap(*b)) != fp.size {
		return
	}
	*b = (*b)[:fp.size]
	fp.pool.Put(b)
}

// Size returns the buffer size this pool was created with.
func (fp *FixedBufferPool) Size() int64 {
	return fp.size
}
