package logging

import (
	"bytes"
	"io"
	"sync"
)

// PrefixWriter wraps an io.Writer and adds a prefix to each line.
// It is safe for concurrent use since subsystem loggers share one output.
type PrefixWriter struct {
	mu     sync.Mutex
	prefix []byte
	writer io.Writer
	buffer bytes.Buffer
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: []byte(prefix),
		writer: w,
	}
}

// Write implements the io.Writer interface. It buffers data until a newline
// is encountered, then writes the prefixed line to the underlying writer.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	pw.buffer.Write(p)
	for {
		idx := bytes.IndexByte(pw.buffer.Bytes(), '\n')
		if idx < 0 {
			// incomplete line stays buffered until more data arrives
			break
		}
		line := pw.buffer.Next(idx + 1)
		if err := pw.emit(line); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Flush writes out a trailing line that never received its newline.
func (pw *PrefixWriter) Flush() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.buffer.Len() == 0 {
		return nil
	}
	line := make([]byte, 0, pw.buffer.Len()+1)
	line = append(line, pw.buffer.Next(pw.buffer.Len())...)
	return pw.emit(append(line, '\n'))
}

func (pw *PrefixWriter) emit(line []byte) error {
	if _, err := pw.writer.Write(pw.prefix); err != nil {
		return err
	}
	_, err := pw.writer.Write(line)
	return err
}
