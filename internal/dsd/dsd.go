// Package dsd tracks DSD playback support for the output.
package dsd

import (
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/slimplayer/internal/config"
)

// Support records how DSD streams reach the output device.
type Support struct {
	logger hclog.Logger

	mu     sync.Mutex
	cfg    config.DSDConfig
	active bool
}

// New returns DSD support with nothing enabled.
func New(logger hclog.Logger) *Support {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Support{logger: logger}
}

// Init enables DSD with the given output format and PCM/DSD switch delay.
func (s *Support) Init(cfg config.DSDConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg.Enabled = true
	s.cfg = cfg
	s.active = true
	s.logger.Info("init dsd", "format", cfg.Format.String(), "delay", cfg.Delay, "native", cfg.Format.IsNative())
	return nil
}

// Config returns the active settings and whether DSD is enabled.
func (s *Support) Config() (config.DSDConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, s.active
}

// Close disables DSD.
func (s *Support) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = config.DSDConfig{}
	s.active = false
	return nil
}
