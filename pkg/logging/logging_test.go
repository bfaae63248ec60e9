package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func TestPrefixWriter(t *testing.T) {
	tests := []struct {
		name     string
		writes   []string
		flush    bool
		expected string
	}{
		{
			name:     "single line",
			writes:   []string{"hello\n"},
			expected: "> hello\n",
		},
		{
			name:     "line split across writes",
			writes:   []string{"hel", "lo\nwor", "ld\n"},
			expected: "> hello\n> world\n",
		},
		{
			name:     "partial line held back",
			writes:   []string{"done\npending"},
			expected: "> done\n",
		},
		{
			name:     "flush emits partial line",
			writes:   []string{"pending"},
			flush:    true,
			expected: "> pending\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			pw := NewPrefixWriter("> ", &out)
			for _, w := range tt.writes {
				n, err := pw.Write([]byte(w))
				if err != nil {
					t.Fatalf("Write error: %v", err)
				}
				if n != len(w) {
					t.Errorf("Write returned %d, want %d", n, len(w))
				}
			}
			if tt.flush {
				if err := pw.Flush(); err != nil {
					t.Fatalf("Flush error: %v", err)
				}
			}
			if out.String() != tt.expected {
				t.Errorf("output = %q, want %q", out.String(), tt.expected)
			}
		})
	}
}

func TestSubsystemLoggersHaveIndependentLevels(t *testing.T) {
	var out bytes.Buffer
	root := NewLogger("slimplayer", "warn", &out)

	decode := NewSubsystemLogger(root, "decode", hclog.Debug)
	stream := NewSubsystemLogger(root, "stream", hclog.Warn)

	decode.Debug("decoder ready")
	stream.Debug("stream hidden")
	root.Info("root hidden")

	got := out.String()
	if !strings.Contains(got, "slimplayer.decode: decoder ready") {
		t.Errorf("decode debug line missing: %q", got)
	}
	if strings.Contains(got, "stream hidden") || strings.Contains(got, "root hidden") {
		t.Errorf("unexpected lines at suppressed level: %q", got)
	}
	if root.GetLevel() != hclog.Warn {
		t.Errorf("root level changed to %s", root.GetLevel())
	}
}

func TestOpenOutput(t *testing.T) {
	t.Run("no path uses stderr", func(t *testing.T) {
		var stderr bytes.Buffer
		w, closeFn := OpenOutput("", &stderr)
		if w != &stderr {
			t.Errorf("writer is not stderr")
		}
		if err := closeFn(); err != nil {
			t.Errorf("close error: %v", err)
		}
	})

	t.Run("appends to log file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "player.log")
		if err := os.WriteFile(path, []byte("earlier\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		var stderr bytes.Buffer
		w, closeFn := OpenOutput(path, &stderr)
		if _, err := w.Write([]byte("later\n")); err != nil {
			t.Fatalf("write error: %v", err)
		}
		if err := closeFn(); err != nil {
			t.Fatalf("close error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "earlier\nlater\n" {
			t.Errorf("log file = %q", data)
		}
	})

	t.Run("unopenable file degrades to stderr", func(t *testing.T) {
		var stderr bytes.Buffer
		path := filepath.Join(t.TempDir(), "missing", "dir", "player.log")
		w, _ := OpenOutput(path, &stderr)
		if w != &stderr {
			t.Errorf("writer is not stderr")
		}
		if !strings.Contains(stderr.String(), "error opening logfile") {
			t.Errorf("missing diagnostic: %q", stderr.String())
		}
	})
}

func TestNewPlayerLoggers(t *testing.T) {
	var out bytes.Buffer
	root := NewLogger("slimplayer", "warn", &out)

	loggers := NewPlayerLoggers(root, map[string]hclog.Level{
		"output":    hclog.Info,
		"slimproto": hclog.Trace,
	})
	if len(loggers) != 2 {
		t.Fatalf("got %d loggers, want 2", len(loggers))
	}

	loggers["output"].Debug("output hidden")
	loggers["output"].Info("output shown")
	loggers["slimproto"].Trace("frame shown")

	got := out.String()
	if strings.Contains(got, "output hidden") {
		t.Errorf("debug line leaked at info level: %q", got)
	}
	if !strings.Contains(got, "slimplayer.output: output shown") {
		t.Errorf("missing output line: %q", got)
	}
	if !strings.Contains(got, "slimplayer.slimproto: frame shown") {
		t.Errorf("missing trace line: %q", got)
	}
}
