// Package pool provides pooled byte buffers for chunk formatting.
//
// The flat CSV shards and the generator stream pipeline format many
// similarly sized text chunks; pooling the buffers keeps the steady-state
// allocation rate flat regardless of result size.
package pool

import "sync"

const (
	// ChunkBufferDefaultSize is the initial capacity of a pooled buffer,
	// sized for a 10,000-line text chunk.
	ChunkBufferDefaultSize = 512 * 1024

	// ChunkBufferMaxThreshold is the largest buffer returned to the pool;
	// anything bigger is dropped for the GC to reclaim.
	ChunkBufferMaxThreshold = 4 * 1024 * 1024
)

// ByteBuffer is a minimal append-only byte buffer.
type ByteBuffer struct {
	B []byte
}

// Reset empties the buffer but keeps its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the number of bytes written.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Write appends p to the buffer. Always returns len(p), nil; the signature
// matches io.Writer.
func (bb *ByteBuffer) Write(p []byte) (int, error) {
	bb.B = append(bb.B, p...)
	return len(p), nil
}

// WriteString appends s to the buffer.
func (bb *ByteBuffer) WriteString(s string) {
	bb.B = append(bb.B, s...)
}

// WriteByte appends a single byte. Always returns nil; the signature matches
// io.ByteWriter.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

var chunkBufferPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, ChunkBufferDefaultSize)}
	},
}

// GetChunkBuffer obtains an empty buffer from the pool.
func GetChunkBuffer() *ByteBuffer {
	bb, _ := chunkBufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutChunkBuffer returns a buffer to the pool unless it grew past the
// threshold.
func PutChunkBuffer(bb *ByteBuffer) {
	if bb == nil || cap(bb.B) > ChunkBufferMaxThreshold {
		return
	}
	chunkBufferPool.Put(bb)
}
