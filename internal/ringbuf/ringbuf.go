// Package ringbuf provides the fixed size byte ring shared by the stream and
// output buffers.
package ringbuf

import (
	"errors"
	"sync"
)

var (
	ErrFull  = errors.New("ring buffer full")
	ErrEmpty = errors.New("ring buffer empty")
)

// Buffer is a mutex protected circular byte buffer.
type Buffer struct {
	mu   sync.Mutex
	data []byte
	rd   int
	used int
}

// New allocates a buffer holding size bytes.
func New(size int) *Buffer {
	return &Buffer{data: make([]byte, size)}
}

// Size returns the capacity in bytes.
func (b *Buffer) Size() int {
	return len(b.data)
}

// Used returns the number of unread bytes.
func (b *Buffer) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// Space returns the number of bytes that can be written.
func (b *Buffer) Space() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data) - b.used
}

// Write copies as much of p as fits. It returns ErrFull when nothing fits.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(p) > 0 && b.used == len(b.data) {
		return 0, ErrFull
	}

	n := 0
	for n < len(p) && b.used < len(b.data) {
		wr := (b.rd + b.used) % len(b.data)
		end := len(b.data)
		if wr < b.rd {
			end = b.rd
		}
		c := copy(b.data[wr:end], p[n:])
		n += c
		b.used += c
	}
	return n, nil
}

// Read copies up to len(p) unread bytes into p. It returns ErrEmpty when
// there is nothing to read.
func (b *Buffer) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(p) > 0 && b.used == 0 {
		return 0, ErrEmpty
	}

	n := 0
	for n < len(p) && b.used > 0 {
		end := min(b.rd+b.used, len(b.data))
		c := copy(p[n:], b.data[b.rd:end])
		n += c
		b.used -= c
		b.rd = (b.rd + c) % len(b.data)
	}
	if b.used == 0 {
		b.rd = 0
	}
	return n, nil
}

// Reset discards unread data.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rd = 0
	b.used = 0
}
