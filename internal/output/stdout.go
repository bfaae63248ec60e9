package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/slimplayer/internal/ringbuf"
)

const stdoutFlushInterval = 20 * time.Millisecond

// Stdout writes decoded frames to a writer, normally the process stdout.
type Stdout struct {
	w      io.Writer
	logger hclog.Logger

	mu     sync.Mutex
	ring   *ringbuf.Buffer
	format SampleFormat
	stop   chan struct{}
	done   chan struct{}
}

// NewStdout returns an uninitialized stdout backend writing to w.
func NewStdout(w io.Writer, logger hclog.Logger) *Stdout {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Stdout{w: w, logger: logger}
}

// Kind implements the output backend contract.
func (s *Stdout) Kind() Kind {
	return KindStdout
}

// ParseStdoutFormat maps the -a value to a sample format. Anything other than
// 24 or 32 means 16 bit.
func ParseStdoutFormat(params string) SampleFormat {
	switch params {
	case "32":
		return FormatS32LE
	case "24":
		return FormatS24_3LE
	default:
		return FormatS16LE
	}
}

// Init allocates the output buffer and starts the writer.
func (s *Stdout) Init(p Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ring != nil {
		return ErrAlreadyInitialized
	}
	if p.BufSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, p.BufSize)
	}

	s.format = ParseStdoutFormat(p.Params)
	s.ring = ringbuf.New(p.BufSize)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	s.logger.Info("init output stdout", "outputbuf_size", p.BufSize, "format", s.format.String(),
		"max_rate", p.Rates.Max(), "rate_delay", p.RateDelay)

	go s.writer(s.ring, s.stop, s.done)
	return nil
}

// Format returns the configured sample format.
func (s *Stdout) Format() SampleFormat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

// Ring returns the output buffer, nil before Init or after Close.
func (s *Stdout) Ring() *ringbuf.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ring
}

func (s *Stdout) writer(ring *ringbuf.Buffer, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(stdoutFlushInterval)
	defer ticker.Stop()

	buf := make([]byte, 64*1024)
	for {
		select {
		case <-stop:
			s.drain(ring, buf)
			return
		case <-ticker.C:
			s.drain(ring, buf)
		}
	}
}

// drain writes whole frames only; a partial frame waits for the next round.
func (s *Stdout) drain(ring *ringbuf.Buffer, buf []byte) {
	frame := s.format.BytesPerFrame()
	for {
		want := min(ring.Used(), len(buf))
		want -= want % frame
		if want == 0 {
			return
		}
		n, err := ring.Read(buf[:want])
		if err != nil {
			return
		}
		if _, err := s.w.Write(buf[:n]); err != nil {
			s.logger.Warn("⚠️ Failed writing to stdout", "error", err)
			return
		}
	}
}

// Close stops the writer after flushing buffered frames.
func (s *Stdout) Close() error {
	s.mu.Lock()
	if s.ring == nil {
		s.mu.Unlock()
		return nil
	}
	stop, done := s.stop, s.done
	s.ring = nil
	s.mu.Unlock()

	close(stop)
	<-done
	s.logger.Debug("close output stdout")
	return nil
}
