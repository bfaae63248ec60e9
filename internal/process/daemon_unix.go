//go:build unix

package process

import "syscall"

// detachedAttr starts the child in its own session, away from the terminal.
func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
