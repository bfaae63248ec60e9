// Package remote receives infrared remote key presses from the lirc daemon.
package remote

import (
	"bufio"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

// DefaultSocket is the lircd socket used when LIRC_SOCKET_PATH is unset.
const DefaultSocket = "/var/run/lirc/lircd"

const dialTimeout = 2 * time.Second

var ErrAlreadyInitialized = errors.New("remote already initialized")

// Event is one decoded key press line from lircd.
type Event struct {
	Code   string
	Repeat int
	Button string
	Remote string
}

// ParseEvent decodes a lircd broadcast line "<code> <repeat> <button> <remote>".
func ParseEvent(line string) (Event, bool) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return Event{}, false
	}
	repeat, err := strconv.ParseUint(fields[1], 16, 32)
	if err != nil {
		return Event{}, false
	}
	return Event{Code: fields[0], Repeat: int(repeat), Button: fields[2], Remote: fields[3]}, true
}

// ExpandHome replaces a leading "~" in path with home.
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// Remote listens to lircd. Failing to reach lircd disables remote control
// without stopping the player.
type Remote struct {
	logger hclog.Logger
	socket string

	mu     sync.Mutex
	conn   net.Conn
	config string
	events chan Event
	done   chan struct{}
}

// New returns a remote reading from socket, or the lircd default when empty.
func New(logger hclog.Logger, socket string) *Remote {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if socket == "" {
		socket = os.Getenv("LIRC_SOCKET_PATH")
	}
	if socket == "" {
		socket = DefaultSocket
	}
	return &Remote{logger: logger, socket: socket, events: make(chan Event, 16)}
}

// Init loads the lircrc at path and connects to lircd.
func (r *Remote) Init(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.config != "" {
		return ErrAlreadyInitialized
	}

	if home, err := os.UserHomeDir(); err == nil {
		path = ExpandHome(path, home)
	}
	r.config = path

	if _, err := os.Stat(path); err != nil {
		r.logger.Warn("⚠️ error reading config", "path", path, "error", err)
	}

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(context.Background(), "unix", r.socket)
	if err != nil {
		r.logger.Warn("⚠️ failed to connect to lircd - ir processing disabled", "socket", r.socket, "error", err)
		return nil
	}

	r.conn = conn
	r.done = make(chan struct{})
	r.logger.Info("init ir", "socket", r.socket, "config", path)

	go r.read(conn, r.done)
	return nil
}

// Events delivers key presses. Events are dropped when nobody reads.
func (r *Remote) Events() <-chan Event {
	return r.events
}

// Connected reports whether lircd is connected.
func (r *Remote) Connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn != nil
}

func (r *Remote) read(conn net.Conn, done chan struct{}) {
	defer close(done)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		ev, ok := ParseEvent(scanner.Text())
		if !ok {
			r.logger.Trace("ignoring lircd line", "line", scanner.Text())
			continue
		}
		r.logger.Debug("ir key", "button", ev.Button, "repeat", ev.Repeat, "remote", ev.Remote)
		select {
		case r.events <- ev:
		default:
			r.logger.Debug("dropping ir key, no reader", "button", ev.Button)
		}
	}
}

// Close disconnects from lircd and waits for the reader to stop.
func (r *Remote) Close() error {
	r.mu.Lock()
	conn, done := r.conn, r.done
	r.conn = nil
	r.config = ""
	r.mu.Unlock()

	if conn == nil {
		return nil
	}
	err := conn.Close()
	<-done
	r.logger.Debug("close ir")
	return err
}
