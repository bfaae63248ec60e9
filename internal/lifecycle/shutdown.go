package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
)

// TerminationSignals stop the player.
var TerminationSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP}

// ShutdownController turns the first termination signal into a cancelled
// stop token and hands every termination signal back to its default
// disposition, so any further one kills a stalled shutdown.
type ShutdownController struct {
	logger hclog.Logger
	grace  time.Duration

	notify func(chan<- os.Signal, ...os.Signal)
	reset  func(...os.Signal)
	stop   func(chan<- os.Signal)
	exit   func(int)

	sigCh    chan os.Signal
	done     chan struct{}
	doneOnce sync.Once

	mu       sync.Mutex
	received os.Signal
}

// ShutdownOption configures a ShutdownController.
type ShutdownOption func(*ShutdownController)

// WithGracePeriod exits the process with status 1 when shutdown has not
// completed d after the stop signal. Zero disables it.
func WithGracePeriod(d time.Duration) ShutdownOption {
	return func(s *ShutdownController) {
		s.grace = d
	}
}

// NewShutdownController returns a controller that is not yet listening.
func NewShutdownController(logger hclog.Logger, opts ...ShutdownOption) *ShutdownController {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &ShutdownController{
		logger: logger,
		notify: signal.Notify,
		reset:  signal.Reset,
		stop:   signal.Stop,
		exit:   os.Exit,
		sigCh:  make(chan os.Signal, 1),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start installs the signal handlers and returns the stop token, a context
// cancelled by the first termination signal or by parent.
func (s *ShutdownController) Start(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	s.notify(s.sigCh, TerminationSignals...)

	go func() {
		select {
		case sig := <-s.sigCh:
			s.mu.Lock()
			s.received = sig
			s.mu.Unlock()

			s.logger.Info("🛑 Signal received, shutting down", "signal", sig.String())
			// further signals take the default action
			s.reset(TerminationSignals...)
			cancel()
			s.escalate()
		case <-ctx.Done():
			cancel()
		case <-s.done:
			cancel()
		}
	}()

	return ctx
}

func (s *ShutdownController) escalate() {
	if s.grace <= 0 {
		return
	}
	timer := time.NewTimer(s.grace)
	defer timer.Stop()

	select {
	case <-s.done:
	case <-timer.C:
		s.logger.Error("❌ Shutdown did not complete in time, exiting", "grace", s.grace)
		s.exit(1)
	}
}

// Signal returns the signal that triggered shutdown, nil if none did.
func (s *ShutdownController) Signal() os.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.received
}

// Done marks shutdown complete, disarming escalation and removing the handlers.
func (s *ShutdownController) Done() {
	s.doneOnce.Do(func() {
		close(s.done)
		s.stop(s.sigCh)
	})
}
