// Package stream owns the network stream buffer filled by the protocol
// client and drained by the decoder.
package stream

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/slimplayer/internal/ringbuf"
)

var (
	ErrInvalidSize        = errors.New("invalid stream buffer size")
	ErrAlreadyInitialized = errors.New("stream buffer already initialized")
)

// Params is the part of the configuration the stream buffer needs.
type Params struct {
	BufSize int
}

// Buffer is the stream buffer subsystem.
type Buffer struct {
	logger hclog.Logger

	mu   sync.Mutex
	ring *ringbuf.Buffer
}

// New returns an uninitialized stream buffer logging to logger.
func New(logger hclog.Logger) *Buffer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Buffer{logger: logger}
}

// Init allocates the buffer.
func (b *Buffer) Init(p Params) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ring != nil {
		return ErrAlreadyInitialized
	}
	if p.BufSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, p.BufSize)
	}

	b.ring = ringbuf.New(p.BufSize)
	b.logger.Info("init stream", "streambuf_size", p.BufSize)
	return nil
}

// Ring returns the underlying buffer, nil before Init or after Close.
func (b *Buffer) Ring() *ringbuf.Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ring
}

// Close releases the buffer. Closing twice is a no-op.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ring == nil {
		return nil
	}
	b.ring = nil
	b.logger.Debug("close stream")
	return nil
}
