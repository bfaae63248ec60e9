// Package config holds the player configuration model and the pure functions
// that derive values the user did not supply on the command line.
package config

import (
	"fmt"
	"strings"
	"time"
)

// LogLevel is the verbosity of one subsystem logger.
type LogLevel int

const (
	LogWarn LogLevel = iota
	LogInfo
	LogDebug
	LogSDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogInfo:
		return "info"
	case LogDebug:
		return "debug"
	case LogSDebug:
		return "sdebug"
	default:
		return "warn"
	}
}

// ParseLogLevel maps a -d level name to a LogLevel. Unknown names fall back to warn.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "info":
		return LogInfo
	case "debug":
		return LogDebug
	case "sdebug":
		return LogSDebug
	default:
		return LogWarn
	}
}

// Subsystem names a logical logger selectable with -d.
type Subsystem string

const (
	SubsystemSlimproto Subsystem = "slimproto"
	SubsystemStream    Subsystem = "stream"
	SubsystemDecode    Subsystem = "decode"
	SubsystemOutput    Subsystem = "output"
	SubsystemIR        Subsystem = "ir"
)

// Subsystems lists every subsystem in the order they are reported.
var Subsystems = []Subsystem{SubsystemSlimproto, SubsystemStream, SubsystemDecode, SubsystemOutput, SubsystemIR}

// LogLevels holds one level per subsystem. Missing entries mean warn.
type LogLevels map[Subsystem]LogLevel

// Level returns the level for s.
func (l LogLevels) Level(s Subsystem) LogLevel {
	return l[s]
}

// Set applies a -d "<log>=<level>" setting. "all" selects every subsystem.
func (l LogLevels) Set(spec string) error {
	name, value, ok := strings.Cut(spec, "=")
	if !ok || name == "" || value == "" {
		return fmt.Errorf("%w: -d %s", ErrInvalidLogSpec, spec)
	}
	level := ParseLogLevel(value)
	if name == "all" {
		for _, s := range Subsystems {
			l[s] = level
		}
		return nil
	}
	for _, s := range Subsystems {
		if string(s) == name {
			l[s] = level
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownLog, name)
}

// AnyAtLeast reports whether some subsystem logs at level or more verbosely.
func (l LogLevels) AnyAtLeast(level LogLevel) bool {
	for _, s := range Subsystems {
		if l[s] >= level {
			return true
		}
	}
	return false
}

// Config is the single record describing how the player runs.
// It is built by the option parser, refined once by Resolve and read-only afterwards.
type Config struct {
	// Identity
	MAC       MAC
	Name      string
	NameFile  string
	ModelName string

	// Server is host[:port]; empty means discovery
	Server string

	// Buffer sizes in bytes; zero OutputBufSize is resolved by Resolve
	StreamBufSize int
	OutputBufSize int

	// IncludeCodecs nil means every available codec
	IncludeCodecs []string
	ExcludeCodecs []string

	OutputDevice string
	OutputParams string
	Rates        RateList
	RateDelay    time.Duration

	Resample       bool
	ResampleRecipe string

	DSD DSDConfig

	Visualizer bool

	IR         bool
	LIRCConfig string

	RTPriority  int
	Mixer       string
	MixerUnmute bool

	IdleTimeout       time.Duration
	DisableDownsample bool

	LogLevels LogLevels

	LogFile   string
	Daemonize bool
	PIDFile   string

	// CmdLine is the raw argument vector, echoed into the log file
	CmdLine []string
}

// Default returns a configuration with every default applied and mac as the
// machine-derived hardware identifier.
func Default(mac MAC) *Config {
	return &Config{
		MAC:           mac,
		StreamBufSize: DefaultStreamBufSize,
		ExcludeCodecs: []string{},
		OutputDevice:  DefaultOutputDevice,
		RTPriority:    DefaultRTPriority,
		LogLevels: LogLevels{
			SubsystemSlimproto: LogWarn,
			SubsystemStream:    LogWarn,
			SubsystemDecode:    LogWarn,
			SubsystemOutput:    LogWarn,
			SubsystemIR:        LogWarn,
		},
	}
}

// UsesStdout reports whether samples are written to standard output.
func (c *Config) UsesStdout() bool {
	return c.OutputDevice == StdoutDevice
}

// SplitCodecs turns a -c/-e comma list into identifiers, dropping empty entries.
func SplitCodecs(s string) []string {
	codecs := []string{}
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			codecs = append(codecs, c)
		}
	}
	return codecs
}
