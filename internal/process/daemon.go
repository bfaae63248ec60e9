package process

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/hashicorp/go-hclog"
)

// DaemonEnv marks the detached child started by Daemonize.
const DaemonEnv = "SLIMPLAYER_DAEMONIZED"

// IsDaemonChild reports whether this process is the detached child.
func IsDaemonChild(getenv func(string) string) bool {
	return getenv(DaemonEnv) == "1"
}

// DaemonOptions control how the detached child is started.
type DaemonOptions struct {
	// KeepStdio leaves stdout and stderr connected, used when logging to a file
	// or writing samples to stdout
	KeepStdio bool
	Stdout    io.Writer
	Stderr    io.Writer
}

// Daemonize starts a detached copy of this program with args and returns the
// child pid. The caller exits right after, leaving the child to run the player.
func Daemonize(args []string, opts DaemonOptions, logger hclog.Logger) (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("error daemonizing: %w", err)
	}

	cmd := exec.Command(exe, args...)
	cmd.Env = append(os.Environ(), DaemonEnv+"=1")
	cmd.SysProcAttr = detachedAttr()
	if opts.KeepStdio {
		cmd.Stdout = opts.Stdout
		cmd.Stderr = opts.Stderr
	}

	logger.Debug("👶 Spawning detached player", "path", exe, "args", args)

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("error daemonizing: %w", err)
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		logger.Debug("Failed to release child process", "error", err)
	}

	logger.Info("🚀 Player detached", "pid", pid)
	return pid, nil
}
