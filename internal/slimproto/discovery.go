package slimproto

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
)

var errFound = errors.New("server found")

// Discover broadcasts discovery requests until a server answers and returns
// its control address.
func (c *Client) Discover(ctx context.Context) (string, error) {
	target, err := net.ResolveUDPAddr("udp4", c.DiscoveryAddr)
	if err != nil {
		return "", fmt.Errorf("invalid discovery address %s: %w", c.DiscoveryAddr, err)
	}

	lc := net.ListenConfig{Control: enableBroadcast}
	pc, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return "", fmt.Errorf("failed to open discovery socket: %w", err)
	}
	defer pc.Close()

	c.logger.Info("🔍 discovering server", "target", target.String())

	var server string
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(c.DiscoveryInterval)
		defer ticker.Stop()
		for {
			if _, err := pc.WriteTo([]byte("e"), target); err != nil {
				c.logger.Debug("discovery send failed", "error", err)
			}
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})

	g.Go(func() error {
		go func() {
			<-gctx.Done()
			// unblocks ReadFrom
			_ = pc.SetReadDeadline(time.Now())
		}()
		buf := make([]byte, 1500)
		for {
			n, from, err := pc.ReadFrom(buf)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				return fmt.Errorf("discovery read failed: %w", err)
			}
			if n == 0 || buf[0] != 'E' {
				continue
			}
			udp, ok := from.(*net.UDPAddr)
			if !ok {
				continue
			}
			server = net.JoinHostPort(udp.IP.String(), strconv.Itoa(DefaultPort))
			return errFound
		}
	})

	err = g.Wait()
	if errors.Is(err, errFound) {
		c.logger.Info("✅ found server", "server", server)
		return server, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	return "", err
}
