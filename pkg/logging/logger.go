package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"
)

// TerminalPrefix marks player lines on an interactive terminal.
const TerminalPrefix = "🔊 "

// NewLogger creates a new hclog logger with standard settings.
//
// Child loggers created with Named keep their own level so that each
// subsystem can be tuned with -d without touching the others.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	// Determine if JSON format should be used
	jsonFormat := os.Getenv("SLIMPLAYER_JSON_LOG") == "1"

	color := hclog.ColorOff
	if !jsonFormat && IsTerminal(output) {
		color = hclog.ForceColor
		output = NewPrefixWriter(TerminalPrefix, output)
	}

	opts := &hclog.LoggerOptions{
		Name:              name,
		Level:             hclog.LevelFromString(level),
		JSONFormat:        jsonFormat,
		Output:            output,
		Color:             color,
		IndependentLevels: true,
		TimeFormat:        "2006-01-02T15:04:05.000Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// NewSubsystemLogger returns a child of parent named after a subsystem and
// running at its own level.
func NewSubsystemLogger(parent hclog.Logger, name string, level hclog.Level) hclog.Logger {
	child := parent.Named(name)
	child.SetLevel(level)
	return child
}

// NewPlayerLoggers returns one named child of parent per entry in levels.
func NewPlayerLoggers(parent hclog.Logger, levels map[string]hclog.Level) map[string]hclog.Logger {
	loggers := make(map[string]hclog.Logger, len(levels))
	for name, level := range levels {
		loggers[name] = NewSubsystemLogger(parent, name, level)
	}
	return loggers
}

// GetLogLevel returns the level of the top level player logger from environment
func GetLogLevel() string {
	level := os.Getenv("SLIMPLAYER_LOG_LEVEL")
	if level == "" {
		level = "warn" // Default to warn for production safety
	}
	return level
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
