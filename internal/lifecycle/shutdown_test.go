package lifecycle

import (
	"context"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSignals stands in for os/signal.
type fakeSignals struct {
	mu       sync.Mutex
	ch       chan<- os.Signal
	notified []os.Signal
	reset    []os.Signal
	stopped  bool
	exits    []int
}

func (f *fakeSignals) install(s *ShutdownController) {
	s.notify = func(c chan<- os.Signal, sigs ...os.Signal) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.ch = c
		f.notified = sigs
	}
	s.reset = func(sigs ...os.Signal) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.reset = append(f.reset, sigs...)
	}
	s.stop = func(chan<- os.Signal) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.stopped = true
	}
	s.exit = func(code int) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.exits = append(f.exits, code)
	}
}

func (f *fakeSignals) send(sig os.Signal) {
	f.mu.Lock()
	ch := f.ch
	f.mu.Unlock()
	ch <- sig
}

func (f *fakeSignals) snapshot() (reset []os.Signal, exits []int, stopped bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]os.Signal(nil), f.reset...), append([]int(nil), f.exits...), f.stopped
}

func TestFirstSignalCancelsAndResets(t *testing.T) {
	fs := &fakeSignals{}
	sc := NewShutdownController(nil)
	fs.install(sc)

	ctx := sc.Start(context.Background())
	assert.ElementsMatch(t, TerminationSignals, fs.notified)
	assert.Nil(t, sc.Signal())

	fs.send(syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("stop token not cancelled")
	}

	assert.Eventually(t, func() bool {
		reset, _, _ := fs.snapshot()
		return len(reset) == len(TerminationSignals)
	}, time.Second, 5*time.Millisecond)
	reset, _, _ := fs.snapshot()
	assert.ElementsMatch(t, TerminationSignals, reset)
	assert.Equal(t, syscall.SIGTERM, sc.Signal())

	sc.Done()
	_, exits, stopped := fs.snapshot()
	assert.Empty(t, exits)
	assert.True(t, stopped)
	sc.Done()
}

func TestGracePeriodEscalates(t *testing.T) {
	fs := &fakeSignals{}
	sc := NewShutdownController(nil, WithGracePeriod(20*time.Millisecond))
	fs.install(sc)

	ctx := sc.Start(context.Background())
	fs.send(syscall.SIGINT)
	<-ctx.Done()

	assert.Eventually(t, func() bool {
		_, exits, _ := fs.snapshot()
		return len(exits) == 1 && exits[0] == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestGracePeriodDisarmedByDone(t *testing.T) {
	fs := &fakeSignals{}
	sc := NewShutdownController(nil, WithGracePeriod(200*time.Millisecond))
	fs.install(sc)

	ctx := sc.Start(context.Background())
	fs.send(syscall.SIGHUP)
	<-ctx.Done()
	sc.Done()

	time.Sleep(300 * time.Millisecond)
	_, exits, _ := fs.snapshot()
	assert.Empty(t, exits)
}

func TestParentCancelStopsWatcher(t *testing.T) {
	fs := &fakeSignals{}
	sc := NewShutdownController(nil)
	fs.install(sc)

	parent, cancel := context.WithCancel(context.Background())
	ctx := sc.Start(parent)
	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("stop token not cancelled by parent")
	}
	reset, _, _ := fs.snapshot()
	assert.Empty(t, reset)
	assert.Nil(t, sc.Signal())
	sc.Done()
}

func TestSignalStopsOrchestratorRun(t *testing.T) {
	fs := &fakeSignals{}
	sc := NewShutdownController(nil)
	fs.install(sc)

	h := newHarness()
	require.NoError(t, h.orch.Configure(fullConfig(t)))
	require.NoError(t, h.orch.StartSubsystems())

	ctx := sc.Start(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.orch.Run(ctx) }()

	<-h.proto.started
	fs.send(syscall.SIGINT)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run loop did not return after signal")
	}
	require.NoError(t, h.orch.StopSubsystems())
	require.NoError(t, h.orch.Terminate())
	sc.Done()

	assert.Equal(t, StateTerminated, h.orch.State())
}
