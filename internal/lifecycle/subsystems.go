package lifecycle

import (
	"context"

	"github.com/provide-io/slimplayer/internal/config"
	"github.com/provide-io/slimplayer/internal/decode"
	"github.com/provide-io/slimplayer/internal/output"
	"github.com/provide-io/slimplayer/internal/slimproto"
	"github.com/provide-io/slimplayer/internal/stream"
)

// StreamBuffer holds data received from the server.
type StreamBuffer interface {
	Init(stream.Params) error
	Close() error
}

// OutputBackend plays decoded audio. Kind tells the backends apart.
type OutputBackend interface {
	Init(output.Params) error
	Close() error
	Kind() output.Kind
}

// Decoder loads codecs according to the include and exclude lists.
type Decoder interface {
	Init(decode.Params) error
	Close() error
}

// Resampler converts sample rates following a recipe.
type Resampler interface {
	Init(recipe string) error
	Close() error
}

// DSDSupport enables DSD output.
type DSDSupport interface {
	Init(config.DSDConfig) error
	Close() error
}

// Visualizer exports playback data for external visualizers.
type Visualizer interface {
	Init(config.MAC) error
	Close() error
}

// Remote listens for infrared remote key presses.
type Remote interface {
	Init(lircrc string) error
	Close() error
}

// Protocol runs the server connection until ctx is done.
type Protocol interface {
	Run(ctx context.Context, p slimproto.Params) error
}

// codecLister is implemented by decoders that report what they loaded.
type codecLister interface {
	Codecs() []string
}

// PIDFile is removed on Terminate.
type PIDFile interface {
	Remove()
}

// Subsystems are the collaborators driven by the orchestrator. Optional
// features may be nil when the configuration never enables them.
type Subsystems struct {
	Stream     StreamBuffer
	Outputs    map[output.Kind]OutputBackend
	DSD        DSDSupport
	Visualizer Visualizer
	Decoder    Decoder
	Resampler  Resampler
	Remote     Remote
	Protocol   Protocol
}

func streamParams(cfg *config.Config) stream.Params {
	return stream.Params{BufSize: cfg.StreamBufSize}
}

func outputParams(cfg *config.Config) output.Params {
	return output.Params{
		Device:      cfg.OutputDevice,
		Params:      cfg.OutputParams,
		BufSize:     cfg.OutputBufSize,
		Rates:       cfg.Rates,
		RateDelay:   cfg.RateDelay,
		RTPriority:  cfg.RTPriority,
		IdleTimeout: cfg.IdleTimeout,
		Mixer:       cfg.Mixer,
		MixerUnmute: cfg.MixerUnmute,
	}
}

func decodeParams(cfg *config.Config) decode.Params {
	return decode.Params{Include: cfg.IncludeCodecs, Exclude: cfg.ExcludeCodecs}
}

func protocolParams(cfg *config.Config, codecs []string) slimproto.Params {
	return slimproto.Params{
		Server:            cfg.Server,
		MAC:               cfg.MAC,
		Name:              cfg.Name,
		NameFile:          cfg.NameFile,
		ModelName:         cfg.ModelName,
		DisableDownsample: cfg.DisableDownsample,
		MaxRate:           cfg.Rates.Max(),
		Codecs:            codecs,
	}
}
