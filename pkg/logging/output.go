package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/provide-io/slimplayer/pkg/utils/permissions"
)

// LogFilePerms is the mode used when a log file has to be created.
const LogFilePerms = "0644"

// OpenOutput returns the writer diagnostics go to.
//
// With an empty path it is stderr. When the log file cannot be opened the
// error is reported on stderr and stderr is used instead, logging never stops
// the player from starting. The returned close function is always non-nil.
func OpenOutput(path string, stderr io.Writer) (io.Writer, func() error) {
	noop := func() error { return nil }
	if path == "" {
		return stderr, noop
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, permissions.FileMode(LogFilePerms))
	if err != nil {
		fmt.Fprintf(stderr, "error opening logfile %s: %v\n", path, err)
		return stderr, noop
	}
	return file, file.Close
}
