// Package vis exports the visualizer sample window through a shared memory
// file that external visualizers map.
package vis

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/slimplayer/internal/config"
	"github.com/provide-io/slimplayer/pkg/utils/permissions"
)

// Layout of the export file: a header followed by the sample window.
const (
	WindowFrames = 16384
	HeaderSize   = 32
	FileSize     = HeaderSize + WindowFrames*2*2

	filePerms = "0644"
)

var ErrAlreadyInitialized = errors.New("visualizer already initialized")

// ShmDir is where export files are created.
var ShmDir = "/dev/shm"

// Header is the fixed part of the export file.
type Header struct {
	Running    uint32
	Rate       uint32
	Updated    int64 // unix nanoseconds
	BufferSize uint32
	Position   uint32
}

// Exporter owns the export file.
type Exporter struct {
	logger hclog.Logger

	mu   sync.Mutex
	file *os.File
}

// New returns an exporter without a file.
func New(logger hclog.Logger) *Exporter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Exporter{logger: logger}
}

// PathFor returns the export file path for a player.
func PathFor(mac config.MAC) string {
	return filepath.Join(ShmDir, "slimplayer-"+strings.ReplaceAll(mac.String(), ":", ""))
}

// Init creates the export file for mac.
func (e *Exporter) Init(mac config.MAC) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file != nil {
		return ErrAlreadyInitialized
	}

	path := PathFor(mac)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, permissions.FileMode(filePerms))
	if err != nil {
		return fmt.Errorf("unable to create visualizer file %s: %w", path, err)
	}
	if err := f.Truncate(FileSize); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("unable to size visualizer file %s: %w", path, err)
	}

	e.file = f
	e.logger.Info("init visualizer export", "path", path)
	return e.writeHeaderLocked(Header{BufferSize: WindowFrames})
}

// Path returns the export file path, empty when not initialized.
func (e *Exporter) Path() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return ""
	}
	return e.file.Name()
}

// Update publishes the playback state.
func (e *Exporter) Update(running bool, rate uint32, position uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return nil
	}
	h := Header{Rate: rate, Updated: time.Now().UnixNano(), BufferSize: WindowFrames, Position: position % WindowFrames}
	if running {
		h.Running = 1
	}
	return e.writeHeaderLocked(h)
}

func (e *Exporter) writeHeaderLocked(h Header) error {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:], h.Running)
	binary.LittleEndian.PutUint32(buf[4:], h.Rate)
	binary.LittleEndian.PutUint64(buf[8:], uint64(h.Updated))
	binary.LittleEndian.PutUint32(buf[16:], h.BufferSize)
	binary.LittleEndian.PutUint32(buf[20:], h.Position)
	if _, err := e.file.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("failed to write visualizer header: %w", err)
	}
	return nil
}

// ReadHeader decodes the header of an export file.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	buf := make([]byte, HeaderSize)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return Header{}, err
	}
	return Header{
		Running:    binary.LittleEndian.Uint32(buf[0:]),
		Rate:       binary.LittleEndian.Uint32(buf[4:]),
		Updated:    int64(binary.LittleEndian.Uint64(buf[8:])),
		BufferSize: binary.LittleEndian.Uint32(buf[16:]),
		Position:   binary.LittleEndian.Uint32(buf[20:]),
	}, nil
}

// Close removes the export file.
func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file == nil {
		return nil
	}
	path := e.file.Name()
	err := e.file.Close()
	e.file = nil
	if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		e.logger.Debug("⚠️ Failed to remove visualizer file", "path", path, "error", rmErr)
	}
	return err
}
