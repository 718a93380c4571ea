package pipeline

import "sync"

const (
	// initialBufferSize is the capacity of a fresh case buffer.
	initialBufferSize = 512

	// maxPooledBuffer keeps unusually large cases from pinning memory.
	maxPooledBuffer = 64 << 10
)

// bufferPool recycles case buffers from the aggregator back to workers.
type bufferPool struct {
	pool sync.Pool
}

func newBufferPool() *bufferPool {
	return &bufferPool{
		pool: sync.Pool{
			New: func() any {
				b := make([]byte, 0, initialBufferSize)
				return &b
			},
		},
	}
}

// get returns an empty buffer with at least hint bytes of capacity.
func (p *bufferPool) get(hint int) []byte {
	b := p.pool.Get().(*[]byte)
	if cap(*b) < hint {
		return make([]byte, 0, hint)
	}
	return (*b)[:0]
}

// put hands a buffer back. The caller must not touch it afterwards.
func (p *bufferPool) put(b []byte) {
	if cap(b) > maxPooledBuffer {
		return
	}
	b = b[:0]
	p.pool.Put(&b)
}
