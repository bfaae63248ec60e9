// Package resample configures sample-rate conversion of decoded audio.
package resample

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidRecipe = errors.New("invalid resample recipe")

// Quality is the converter quality letter.
type Quality byte

const (
	QualityVeryHigh Quality = 'v'
	QualityHigh     Quality = 'h'
	QualityMedium   Quality = 'm'
	QualityLow      Quality = 'l'
	QualityQuick    Quality = 'q'
)

// Phase is the filter phase response letter.
type Phase byte

const (
	PhaseLinear       Phase = 'L'
	PhaseIntermediate Phase = 'I'
	PhaseMinimum      Phase = 'M'
)

// Mode decides when resampling happens.
type Mode int

const (
	// ModeSync resamples to the largest supported multiple of the source rate
	ModeSync Mode = iota
	// ModeException resamples only rates the output cannot play
	ModeException
	// ModeMax always resamples to the maximum output rate
	ModeMax
)

func (m Mode) String() string {
	switch m {
	case ModeException:
		return "exception"
	case ModeMax:
		return "max"
	default:
		return "sync"
	}
}

// Recipe is a parsed -R value:
// <recipe>:<flags>:<attenuation>:<precision>:<passband_end>:<stopband_start>:<phase_response>.
// Zero numeric fields mean the converter default.
type Recipe struct {
	Quality Quality
	Phase   Phase
	Steep   bool
	Mode    Mode

	Flags         uint64
	Attenuation   float64 // dB
	Precision     float64 // bits
	PassbandEnd   float64 // percent
	StopbandStart float64 // percent
	PhaseResponse float64 // 0-100
}

// DefaultRecipe is used for a bare -R.
func DefaultRecipe() Recipe {
	return Recipe{Quality: QualityHigh, Phase: PhaseLinear, Mode: ModeSync}
}

// ParseRecipe parses s on top of DefaultRecipe.
func ParseRecipe(s string) (Recipe, error) {
	r := DefaultRecipe()
	if s == "" {
		return r, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 7 {
		return r, fmt.Errorf("%w: too many parts in %s", ErrInvalidRecipe, s)
	}

	for _, c := range parts[0] {
		switch c {
		case 'v', 'h', 'm', 'l', 'q':
			r.Quality = Quality(c)
		case 'L', 'I', 'M':
			r.Phase = Phase(c)
		case 's':
			r.Steep = true
		case 'E':
			r.Mode = ModeException
		case 'X':
			r.Mode = ModeMax
		default:
			return r, fmt.Errorf("%w: unknown recipe letter %q", ErrInvalidRecipe, c)
		}
	}

	if len(parts) > 1 && parts[1] != "" {
		flags, err := strconv.ParseUint(parts[1], 16, 64)
		if err != nil {
			return r, fmt.Errorf("%w: flags %s", ErrInvalidRecipe, parts[1])
		}
		r.Flags = flags
	}

	fields := []struct {
		name     string
		dst      *float64
		min, max float64
	}{
		{"attenuation", &r.Attenuation, 0, 200},
		{"precision", &r.Precision, 0, 33},
		{"passband_end", &r.PassbandEnd, 0, 100},
		{"stopband_start", &r.StopbandStart, 0, 200},
		{"phase_response", &r.PhaseResponse, 0, 100},
	}
	for i, f := range fields {
		idx := i + 2
		if idx >= len(parts) || parts[idx] == "" {
			continue
		}
		v, err := strconv.ParseFloat(parts[idx], 64)
		if err != nil || v < f.min || v > f.max {
			return r, fmt.Errorf("%w: %s %s", ErrInvalidRecipe, f.name, parts[idx])
		}
		*f.dst = v
	}

	if r.PassbandEnd > 0 && r.StopbandStart > 0 && r.PassbandEnd >= r.StopbandStart {
		return r, fmt.Errorf("%w: passband_end must be below stopband_start", ErrInvalidRecipe)
	}
	return r, nil
}
