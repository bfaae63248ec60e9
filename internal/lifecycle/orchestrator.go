// Package lifecycle drives the player through start-up, the protocol run
// loop and an orderly teardown.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/provide-io/slimplayer/internal/config"
	"github.com/provide-io/slimplayer/internal/output"
)

// Subsystem names used in logs and close ordering.
const (
	nameStream     = "stream"
	nameOutput     = "output"
	nameDSD        = "dsd"
	nameVisualizer = "visualizer"
	nameDecoder    = "decode"
	nameResampler  = "resample"
	nameRemote     = "ir"
)

// closeOrder is the teardown order after a normal run. Visualizer, DSD and
// resampler hang off the output and are released right after it.
var closeOrder = []string{nameDecoder, nameStream, nameOutput, nameVisualizer, nameDSD, nameResampler, nameRemote}

var (
	ErrMissingSubsystem = errors.New("missing subsystem")
	ErrNotResolved      = errors.New("configuration not resolved")
)

type started struct {
	name  string
	close func() error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPIDFile removes pf on Terminate.
func WithPIDFile(pf PIDFile) Option {
	return func(o *Orchestrator) {
		o.pidFile = pf
	}
}

// Orchestrator is the player lifecycle state machine.
type Orchestrator struct {
	subs    Subsystems
	logger  hclog.Logger
	pidFile PIDFile

	mu          sync.Mutex
	state       State
	history     []State
	cfg         *config.Config
	output      OutputBackend
	started     []started
	protocolErr error
}

// New returns an orchestrator in the Unconfigured state.
func New(subs Subsystems, logger hclog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	o := &Orchestrator{
		subs:    subs,
		logger:  logger,
		state:   StateUnconfigured,
		history: []State{StateUnconfigured},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// History returns every state visited, oldest first.
func (o *Orchestrator) History() []State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.history)
}

// ProtocolErr returns the error the protocol client stopped with, if any.
func (o *Orchestrator) ProtocolErr() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.protocolErr
}

// expect checks the current state allows moving to next. Caller holds mu.
func (o *Orchestrator) expect(next State) error {
	if !canTransition(o.state, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.state, next)
	}
	return nil
}

// enter moves to next. Caller holds mu.
func (o *Orchestrator) enter(next State) {
	o.logger.Debug("🔄 Lifecycle transition", "from", o.state.String(), "to", next.String())
	o.state = next
	o.history = append(o.history, next)
}

// Configure takes ownership of a resolved configuration and picks the
// output backend for its device.
func (o *Orchestrator) Configure(cfg *config.Config) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.expect(StateConfigured); err != nil {
		return err
	}
	if cfg == nil || cfg.OutputBufSize <= 0 {
		return ErrNotResolved
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	kind := output.KindFor(cfg.OutputDevice)
	backend := o.subs.Outputs[kind]
	if backend == nil {
		return fmt.Errorf("%w: %s output", ErrMissingSubsystem, kind)
	}
	if o.subs.Stream == nil || o.subs.Decoder == nil || o.subs.Protocol == nil {
		return fmt.Errorf("%w: stream, decoder and protocol are required", ErrMissingSubsystem)
	}

	o.cfg = cfg
	o.output = backend
	o.enter(StateConfigured)
	return nil
}

// StartSubsystems initializes every enabled subsystem in dependency order.
// When one fails, those already up are closed in reverse order and the
// error is returned; there are no retries.
func (o *Orchestrator) StartSubsystems() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.expect(StateSubsystemsUp); err != nil {
		return err
	}
	cfg := o.cfg

	steps := []struct {
		name    string
		enabled bool
		missing bool
		init    func() error
		close   func() error
	}{
		{nameStream, true, false,
			func() error { return o.subs.Stream.Init(streamParams(cfg)) }, func() error { return o.subs.Stream.Close() }},
		{nameOutput, true, false,
			func() error { return o.output.Init(outputParams(cfg)) }, func() error { return o.output.Close() }},
		{nameDSD, cfg.DSD.Enabled, o.subs.DSD == nil,
			func() error { return o.subs.DSD.Init(cfg.DSD) }, func() error { return o.subs.DSD.Close() }},
		{nameVisualizer, cfg.Visualizer, o.subs.Visualizer == nil,
			func() error { return o.subs.Visualizer.Init(cfg.MAC) }, func() error { return o.subs.Visualizer.Close() }},
		{nameDecoder, true, false,
			func() error { return o.subs.Decoder.Init(decodeParams(cfg)) }, func() error { return o.subs.Decoder.Close() }},
		{nameResampler, cfg.Resample, o.subs.Resampler == nil,
			func() error { return o.subs.Resampler.Init(cfg.ResampleRecipe) }, func() error { return o.subs.Resampler.Close() }},
		{nameRemote, cfg.IR, o.subs.Remote == nil,
			func() error { return o.subs.Remote.Init(cfg.LIRCConfig) }, func() error { return o.subs.Remote.Close() }},
	}

	for _, step := range steps {
		if !step.enabled {
			continue
		}
		var err error
		if step.missing {
			err = fmt.Errorf("%w: %s", ErrMissingSubsystem, step.name)
		} else {
			o.logger.Debug("▶️ Starting subsystem", "subsystem", step.name)
			err = step.init()
		}
		if err != nil {
			o.logger.Error("❌ Subsystem failed to start", "subsystem", step.name, "error", err)
			o.unwindLocked()
			o.enter(StateSubsystemsDown)
			return fmt.Errorf("%s init failed: %w", step.name, err)
		}
		o.started = append(o.started, started{name: step.name, close: step.close})
	}

	o.enter(StateSubsystemsUp)
	return nil
}

// unwindLocked closes started subsystems in reverse start order.
func (o *Orchestrator) unwindLocked() {
	for i := len(o.started) - 1; i >= 0; i-- {
		s := o.started[i]
		if err := s.close(); err != nil {
			o.logger.Warn("⚠️ Failed to close subsystem", "subsystem", s.name, "error", err)
		}
	}
	o.started = nil
}

// Run runs the protocol client until ctx is cancelled or the client returns.
// A client error is logged and kept for ProtocolErr; it never prevents the
// orderly shutdown that follows.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.mu.Lock()
	if err := o.expect(StateRunning); err != nil {
		o.mu.Unlock()
		return err
	}
	var codecs []string
	if lister, ok := o.subs.Decoder.(codecLister); ok {
		codecs = lister.Codecs()
	}
	params := protocolParams(o.cfg, codecs)
	proto := o.subs.Protocol
	o.enter(StateRunning)
	o.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer cancel()
		return proto.Run(gctx, params)
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			o.logger.Info("🛑 Stop requested, leaving run loop")
		}
		return nil
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		err = nil
	}
	if err != nil {
		o.logger.Error("❌ Protocol client stopped with error", "error", err)
	}

	o.mu.Lock()
	o.protocolErr = err
	o.mu.Unlock()
	return nil
}

// StopSubsystems closes every started subsystem in teardown order. Close
// errors are logged and returned together; the state still advances.
func (o *Orchestrator) StopSubsystems() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.expect(StateSubsystemsDown); err != nil {
		return err
	}

	byName := make(map[string]started, len(o.started))
	for _, s := range o.started {
		byName[s.name] = s
	}

	var errs []error
	for _, name := range closeOrder {
		s, ok := byName[name]
		if !ok {
			continue
		}
		o.logger.Debug("⏹️ Closing subsystem", "subsystem", name)
		if err := s.close(); err != nil {
			o.logger.Warn("⚠️ Failed to close subsystem", "subsystem", name, "error", err)
			errs = append(errs, fmt.Errorf("%s close: %w", name, err))
		}
	}
	o.started = nil

	o.enter(StateSubsystemsDown)
	return errors.Join(errs...)
}

// Terminate releases process resources.
func (o *Orchestrator) Terminate() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.expect(StateTerminated); err != nil {
		return err
	}
	if o.pidFile != nil {
		o.pidFile.Remove()
	}
	o.enter(StateTerminated)
	return nil
}
