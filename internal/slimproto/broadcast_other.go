//go:build !unix

package slimproto

import "syscall"

func enableBroadcast(_, _ string, _ syscall.RawConn) error {
	return nil
}
