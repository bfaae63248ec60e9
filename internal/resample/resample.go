package resample

import (
	"errors"
	"sync"

	"github.com/hashicorp/go-hclog"
)

var ErrAlreadyInitialized = errors.New("resampler already initialized")

// Resampler holds the active conversion recipe.
type Resampler struct {
	logger hclog.Logger

	mu     sync.Mutex
	recipe *Recipe
}

// New returns an inactive resampler.
func New(logger hclog.Logger) *Resampler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Resampler{logger: logger}
}

// Init parses recipe and activates resampling.
func (r *Resampler) Init(recipe string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recipe != nil {
		return ErrAlreadyInitialized
	}
	parsed, err := ParseRecipe(recipe)
	if err != nil {
		return err
	}
	r.recipe = &parsed
	r.logger.Info("init resample", "quality", string(parsed.Quality), "phase", string(parsed.Phase),
		"steep", parsed.Steep, "mode", parsed.Mode.String(), "flags", parsed.Flags)
	return nil
}

// Recipe returns the active recipe and whether resampling is on.
func (r *Resampler) Recipe() (Recipe, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recipe == nil {
		return Recipe{}, false
	}
	return *r.recipe, true
}

// Close deactivates resampling.
func (r *Resampler) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recipe != nil {
		r.recipe = nil
		r.logger.Debug("close resample")
	}
	return nil
}
