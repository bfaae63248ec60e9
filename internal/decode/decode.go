// Package decode selects the codecs the player advertises to the server.
package decode

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/slimplayer/internal/config"
)

var (
	ErrNoCodecs           = errors.New("no codecs available")
	ErrAlreadyInitialized = errors.New("decoder already initialized")
)

// Params is the codec policy from -c and -e.
type Params struct {
	// Include nil means every available codec
	Include []string
	Exclude []string
}

// Decoder holds the codec set chosen at start-up.
type Decoder struct {
	logger    hclog.Logger
	available []string

	mu     sync.Mutex
	codecs []string
	ready  bool
}

// New returns a decoder able to load the given codecs, in preference order.
// An empty list means config.KnownCodecs.
func New(logger hclog.Logger, available ...string) *Decoder {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if len(available) == 0 {
		available = config.KnownCodecs
	}
	return &Decoder{logger: logger, available: available}
}

// Init loads the codecs allowed by p.
func (d *Decoder) Init(p Params) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ready {
		return ErrAlreadyInitialized
	}

	codecs := Select(d.available, p.Include, p.Exclude)
	if len(codecs) == 0 {
		return ErrNoCodecs
	}

	d.codecs = codecs
	d.ready = true
	d.logger.Info("init decode", "codecs", strings.Join(codecs, ","))
	if len(p.Exclude) > 0 {
		d.logger.Debug("excluded codecs", "exclude", strings.Join(p.Exclude, ","))
	}
	return nil
}

// Codecs returns the loaded codecs in preference order.
func (d *Decoder) Codecs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.codecs)
}

// Close unloads the codecs.
func (d *Decoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.ready {
		return nil
	}
	d.codecs = nil
	d.ready = false
	d.logger.Debug("close decode")
	return nil
}

// Select filters available by the include and exclude lists. A nil include
// list keeps everything; exclusion always wins.
func Select(available, include, exclude []string) []string {
	selected := []string{}
	for _, c := range available {
		if include != nil && !slices.Contains(include, c) {
			continue
		}
		if slices.Contains(exclude, c) {
			continue
		}
		selected = append(selected, c)
	}
	return selected
}
