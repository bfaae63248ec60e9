package player

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/slimplayer/internal/config"
)

var testMAC = config.MAC{0x02, 0xaa, 0xbb, 0xcc, 0xdd, 0xee}

// syncBuffer is a bytes.Buffer safe for the stdout writer goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type commandCall struct {
	name string
	args []string
}

func testEnv(stdout, stderr io.Writer, calls *[]commandCall) Env {
	return Env{
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(string) string { return "" },
		Runner: func(_ context.Context, name string, args ...string) ([]byte, error) {
			*calls = append(*calls, commandCall{name: name, args: args})
			if name == "aplay" {
				return []byte("default\n    Default output\n"), nil
			}
			return []byte("Simple mixer control 'Master',0\n"), nil
		},
		MachineMAC: func() config.MAC { return testMAC },
	}
}

func launch(t *testing.T, args ...string) (int, string, string, []commandCall) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	var calls []commandCall
	code := Launch(context.Background(), append([]string{"/usr/local/bin/slimplayer"}, args...), testEnv(&stdout, &stderr, &calls))
	return code, stdout.String(), stderr.String(), calls
}

func TestHelpAndLicense(t *testing.T) {
	code, stdout, _, _ := launch(t, "-?")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "Usage: slimplayer [options]")

	code, stdout, _, _ = launch(t, "-t")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "GNU General Public License")
}

func TestListDevicesAndMixers(t *testing.T) {
	code, stdout, _, calls := launch(t, "-l")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "Default output")
	require.Len(t, calls, 1)
	assert.Equal(t, "aplay", calls[0].name)

	code, stdout, _, calls = launch(t, "-o", "hw:1", "-L")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "Volume controls for hw:1")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"-D", "hw:1", "scontrols"}, calls[0].args)
}

func TestInformationalFlagStopsBeforeLaterErrors(t *testing.T) {
	code, _, stderr, _ := launch(t, "-l", "-Z")
	assert.Equal(t, ExitOK, code)
	assert.Empty(t, stderr)
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown option", []string{"-Z"}, "Option error: -Z"},
		{"missing value", []string{"-s"}, "Option error: -s"},
		{"trailing argument", []string{"-x", "extra"}, "command line argument error"},
		{"name conflict", []string{"-n", "Den", "-N", "/tmp/name"}, config.ErrNameConflict.Error()},
		{"priority range", []string{"-p", "100"}, "invalid priority"},
		{"bad rate", []string{"-r", "44100,abc"}, "invalid sample rates"},
		{"oversized buffer", []string{"-s", "127.0.0.1:1", "-b", "4503599627370496"}, "invalid buffer size"},
		{"wrapping output buffer", []string{"-s", "127.0.0.1:1", "-b", ":9007199254740992"}, "invalid buffer size"},
		{"debug setting without level", []string{"-d", "all"}, "Debug settings error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr, calls := launch(t, tt.args...)
			assert.Equal(t, ExitError, code)
			assert.Empty(t, stdout)
			assert.Empty(t, calls)
			assert.Contains(t, stderr, tt.want)
			assert.Contains(t, stderr, "Usage: slimplayer")
		})
	}
}

func TestPIDFileFailureIsFatal(t *testing.T) {
	pid := filepath.Join(t.TempDir(), "missing", "player.pid")
	code, _, stderr, _ := launch(t, "-s", "127.0.0.1:1", "-P", pid)
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "error opening pidfile")
}

func TestFailedStartExitsAndRemovesPIDFile(t *testing.T) {
	pid := filepath.Join(t.TempDir(), "player.pid")
	code, _, stderr, _ := launch(t,
		"-m", "00:04:20:12:34:56",
		"-s", "127.0.0.1:1",
		"-o", "hw:0",
		"-a", "::99",
		"-P", pid,
	)
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "ignoring mac address from hardware player range")
	assert.Contains(t, stderr, "Failed to start player")

	_, err := os.Stat(pid)
	assert.True(t, os.IsNotExist(err))
}

func readHELO(t *testing.T, conn net.Conn) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	hdr := make([]byte, 8)
	_, err := io.ReadFull(conn, hdr)
	require.NoError(t, err)
	require.Equal(t, "HELO", string(hdr[:4]))
	body := make([]byte, binary.BigEndian.Uint32(hdr[4:]))
	_, err = io.ReadFull(conn, body)
	require.NoError(t, err)
	return body
}

func TestRunUntilStopped(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	dir := t.TempDir()
	pid := filepath.Join(dir, "player.pid")
	logFile := filepath.Join(dir, "player.log")

	var stdout, stderr syncBuffer
	var calls []commandCall
	env := testEnv(&stdout, &stderr, &calls)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	args := []string{"slimplayer",
		"-s", ln.Addr().String(),
		"-o", "-",
		"-a", "24",
		"-n", "Test Player",
		"-d", "slimproto=info",
		"-f", logFile,
		"-P", pid,
		"-c", "flac,mp3",
	}
	done := make(chan int, 1)
	go func() { done <- Launch(ctx, args, env) }()

	require.NoError(t, ln.(*net.TCPListener).SetDeadline(time.Now().Add(5*time.Second)))
	conn, err := ln.Accept()
	require.NoError(t, err)
	defer conn.Close()

	body := readHELO(t, conn)
	assert.Equal(t, testMAC[:], body[2:8])
	caps := string(body[36:])
	assert.True(t, strings.HasSuffix(caps, ",flac,mp3"), caps)

	data, err := os.ReadFile(pid)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), strings.TrimSpace(string(data)))

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, ExitOK, code)
	case <-time.After(5 * time.Second):
		t.Fatal("player did not stop")
	}

	_, err = os.Stat(pid)
	assert.True(t, os.IsNotExist(err))

	logData, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "slimplayer -s "+ln.Addr().String())
	assert.Contains(t, string(logData), "'Test Player'")
	assert.Contains(t, string(logData), "slimproto")
	assert.Empty(t, calls)
}

func TestHclogLevel(t *testing.T) {
	assert.Equal(t, "warn", hclogLevel(config.LogWarn).String())
	assert.Equal(t, "info", hclogLevel(config.LogInfo).String())
	assert.Equal(t, "debug", hclogLevel(config.LogDebug).String())
	assert.Equal(t, "trace", hclogLevel(config.LogSDebug).String())
}
