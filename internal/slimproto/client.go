// Package slimproto connects the player to a media server: discovery,
// registration and the control connection.
package slimproto

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/provide-io/slimplayer/internal/config"
)

// DefaultPort is the control port of the media server.
const DefaultPort = 3483

const (
	defaultDiscoveryInterval = 5 * time.Second
	defaultReconnectDelay    = 5 * time.Second
	dialTimeout              = 10 * time.Second
)

var (
	ErrInvalidServer = errors.New("invalid server address")
	ErrServerClosed  = errors.New("server closed connection")
)

// Params is the identity and connectivity slice of the configuration.
type Params struct {
	// Server is host[:port]; empty runs discovery
	Server            string
	MAC               config.MAC
	Name              string
	NameFile          string
	ModelName         string
	DisableDownsample bool
	MaxRate           uint32
	Codecs            []string
}

// Client is the protocol client. Run blocks until its context ends.
type Client struct {
	logger hclog.Logger

	// DiscoveryAddr receives discovery requests, the broadcast address by default
	DiscoveryAddr     string
	DiscoveryInterval time.Duration
	ReconnectDelay    time.Duration

	mu   sync.Mutex
	name string
}

// New returns a client with the default discovery and reconnect settings.
func New(logger hclog.Logger) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{
		logger:            logger,
		DiscoveryAddr:     net.JoinHostPort("255.255.255.255", strconv.Itoa(DefaultPort)),
		DiscoveryInterval: defaultDiscoveryInterval,
		ReconnectDelay:    defaultReconnectDelay,
	}
}

// Name returns the current player name.
func (c *Client) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

func (c *Client) setName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

// ServerAddr adds the default port to a server given without one.
func ServerAddr(server string) (string, error) {
	if server == "" {
		return "", ErrInvalidServer
	}
	host, port, err := net.SplitHostPort(server)
	if err != nil {
		// no port given
		return net.JoinHostPort(server, strconv.Itoa(DefaultPort)), nil
	}
	if host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidServer, server)
	}
	if p, err := strconv.Atoi(port); err != nil || p <= 0 || p > 65535 {
		return "", fmt.Errorf("%w: %s", ErrInvalidServer, server)
	}
	return server, nil
}

// Run connects to the server, reconnecting after failures, until ctx is
// done. It returns nil when stopped and an error only for unusable settings.
func (c *Client) Run(ctx context.Context, p Params) error {
	name := p.Name
	if p.NameFile != "" {
		if stored, err := ReadNameFile(p.NameFile); err == nil && stored != "" {
			name = stored
		} else if err != nil {
			c.logger.Debug("no stored player name", "path", p.NameFile, "error", err)
		}
	}
	c.setName(name)

	var fixed string
	if p.Server != "" {
		addr, err := ServerAddr(p.Server)
		if err != nil {
			return err
		}
		fixed = addr
	}

	reconnect := false
	for {
		addr := fixed
		if addr == "" {
			found, err := c.Discover(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			addr = found
		}

		err := c.session(ctx, addr, p, reconnect)
		if ctx.Err() != nil {
			return nil
		}
		c.logger.Warn("⚠️ connection to server lost, reconnecting", "server", addr, "error", err)
		reconnect = true

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.ReconnectDelay):
		}
	}
}

// session runs one control connection until it fails or ctx ends.
func (c *Client) session(ctx context.Context, addr string, p Params, reconnect bool) error {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	c.logger.Info("🔌 connected", "server", addr, "mac", p.MAC.String(), "name", c.Name())

	helo := BuildHELO(p.MAC, reconnect, Capabilities(p))
	if _, err := conn.Write(helo); err != nil {
		return fmt.Errorf("failed to send HELO: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		// unblocks the reader
		return conn.Close()
	})
	g.Go(func() error {
		err := c.readLoop(conn, p)
		if errors.Is(err, io.EOF) {
			return ErrServerClosed
		}
		return err
	})

	err = g.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (c *Client) readLoop(conn net.Conn, p Params) error {
	for {
		f, err := ReadFrame(conn)
		if err != nil {
			return err
		}
		c.logger.Trace("frame", "opcode", f.Opcode, "len", len(f.Data))

		switch f.Opcode {
		case "setd":
			c.handleSetd(conn, f.Data, p)
		default:
			c.logger.Debug("unhandled frame", "opcode", f.Opcode)
		}
	}
}

// handleSetd answers player name queries and stores name changes.
func (c *Client) handleSetd(conn net.Conn, data []byte, p Params) {
	if len(data) == 0 || data[0] != setdPlayerName {
		return
	}
	if len(data) == 1 {
		if _, err := conn.Write(BuildSETD(setdPlayerName, c.Name())); err != nil {
			c.logger.Warn("⚠️ failed to report player name", "error", err)
		}
		return
	}

	name := cString(data[1:])
	c.setName(name)
	c.logger.Info("✏️ player name set", "name", name)

	if p.NameFile != "" {
		if err := WriteNameFile(p.NameFile, name); err != nil {
			c.logger.Warn("⚠️ unable to store player name", "path", p.NameFile, "error", err)
		}
	}
}
