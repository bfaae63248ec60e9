//go:build unix

package slimproto

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// enableBroadcast lets the discovery socket send to the broadcast address.
func enableBroadcast(_, _ string, rc syscall.RawConn) error {
	var sockErr error
	err := rc.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}
