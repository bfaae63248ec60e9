// Package process integrates the player with the host: pid file, daemon
// mode and the machine hardware address.
package process

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/slimplayer/pkg/utils/permissions"
)

var ErrPIDFile = errors.New("error opening pidfile")

// PIDFilePerms is the mode of a newly created pid file.
const PIDFilePerms = "0644"

// PIDFile is a pid file opened before daemonizing and written afterwards.
type PIDFile struct {
	path   string
	file   *os.File
	logger hclog.Logger
}

// IsProcessRunning checks if a process with given PID is still running
func IsProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// On Unix, Signal(0) checks if process exists without actually sending a signal
	err = process.Signal(syscall.Signal(0))
	return err == nil
}

// ReadPID returns the pid recorded in path.
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// OpenPIDFile opens path for writing and remembers its absolute location so
// it can be removed after the working directory changes.
func OpenPIDFile(path string, logger hclog.Logger) (*PIDFile, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrPIDFile, path, err)
	}

	// A pid file left behind by a live player is overwritten, but say so
	if oldPid, err := ReadPID(abs); err == nil {
		if oldPid != os.Getpid() && IsProcessRunning(oldPid) {
			logger.Warn("⚠️ pid file belongs to a running process, overwriting", "path", abs, "pid", oldPid)
		} else {
			logger.Debug("🧹 Replacing stale pid file", "path", abs, "pid", oldPid)
		}
	}

	file, err := os.OpenFile(abs, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, permissions.FileMode(PIDFilePerms))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrPIDFile, path, err)
	}

	return &PIDFile{path: abs, file: file, logger: logger}, nil
}

// Path returns the absolute pid file path.
func (p *PIDFile) Path() string {
	return p.path
}

// Write records pid and closes the file.
func (p *PIDFile) Write(pid int) error {
	defer func() {
		if err := p.file.Close(); err != nil {
			p.logger.Debug("Failed to close pid file", "error", err)
		}
	}()

	if _, err := fmt.Fprintf(p.file, "%d\n", pid); err != nil {
		return fmt.Errorf("failed to write pid file %s: %w", p.path, err)
	}
	p.logger.Debug("📝 Wrote pid file", "path", p.path, "pid", pid)
	return nil
}

// Remove deletes the pid file.
func (p *PIDFile) Remove() {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.logger.Debug("⚠️ Failed to remove pid file", "path", p.path, "error", err)
		return
	}
	p.logger.Debug("🧹 Removed pid file", "path", p.path)
}
