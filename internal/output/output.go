// Package output implements the audio output backends: raw samples on
// standard output or a named sound device.
package output

import (
	"errors"
	"time"

	"github.com/provide-io/slimplayer/internal/config"
)

var (
	ErrInvalidParams      = errors.New("invalid output params")
	ErrInvalidSize        = errors.New("invalid output buffer size")
	ErrAlreadyInitialized = errors.New("output already initialized")
)

// Kind selects the output backend.
type Kind int

const (
	KindDevice Kind = iota
	KindStdout
)

func (k Kind) String() string {
	if k == KindStdout {
		return "stdout"
	}
	return "device"
}

// KindFor picks the backend for an -o device name.
func KindFor(device string) Kind {
	if device == config.StdoutDevice {
		return KindStdout
	}
	return KindDevice
}

// Params is the output slice of the configuration.
type Params struct {
	Device      string
	Params      string
	BufSize     int
	Rates       config.RateList
	RateDelay   time.Duration
	RTPriority  int
	IdleTimeout time.Duration
	Mixer       string
	MixerUnmute bool
}

// SampleFormat is the frame layout written to the output.
type SampleFormat int

const (
	FormatS16LE SampleFormat = iota
	FormatS24LE
	FormatS24_3LE
	FormatS32LE
)

var formatNames = map[SampleFormat]string{
	FormatS16LE:   "S16_LE",
	FormatS24LE:   "S24_LE",
	FormatS24_3LE: "S24_3LE",
	FormatS32LE:   "S32_LE",
}

func (f SampleFormat) String() string {
	return formatNames[f]
}

// BytesPerFrame returns the size of one stereo frame.
func (f SampleFormat) BytesPerFrame() int {
	switch f {
	case FormatS16LE:
		return 4
	case FormatS24_3LE:
		return 6
	default:
		return 8
	}
}
