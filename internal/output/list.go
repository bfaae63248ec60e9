package output

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const commandTimeout = 5 * time.Second

// procPCM lists sound devices when aplay is missing.
var procPCM = "/proc/asound/pcm"

// CommandRunner runs an external command and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("%s exit code %d: %s", name, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("failed to run %s: %w", name, err)
	}
	return out, nil
}

// ListDevices writes the available output devices to w, one name and
// description per entry.
func ListDevices(ctx context.Context, w io.Writer, run CommandRunner) error {
	if run == nil {
		run = ExecRunner
	}
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	fmt.Fprintln(w, "Output devices:")

	out, err := run(ctx, "aplay", "-L")
	if err != nil {
		return listProcDevices(w)
	}

	// aplay -L prints the name unindented followed by indented description lines
	var name string
	var desc []string
	flush := func() {
		if name != "" {
			fmt.Fprintf(w, "  %-30s - %s\n", name, strings.Join(desc, " "))
		}
		name, desc = "", nil
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			desc = append(desc, strings.TrimSpace(line))
			continue
		}
		flush()
		name = line
	}
	flush()
	fmt.Fprintln(w)
	return scanner.Err()
}

// listProcDevices reads the kernel PCM list, lines like "00-01: id : name : playback 1".
func listProcDevices(w io.Writer) error {
	f, err := os.Open(procPCM)
	if err != nil {
		return fmt.Errorf("no output devices found: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ":")
		if len(fields) < 3 {
			continue
		}
		cardStr, devStr, ok := strings.Cut(strings.TrimSpace(fields[0]), "-")
		if !ok {
			continue
		}
		card, err1 := strconv.Atoi(cardStr)
		dev, err2 := strconv.Atoi(devStr)
		if err1 != nil || err2 != nil {
			continue
		}
		fmt.Fprintf(w, "  %-30s - %s\n", fmt.Sprintf("hw:%d,%d", card, dev), strings.TrimSpace(fields[2]))
	}
	fmt.Fprintln(w)
	return scanner.Err()
}

// ListMixers writes the simple mixer controls of device to w.
func ListMixers(ctx context.Context, w io.Writer, device string, run CommandRunner) error {
	if run == nil {
		run = ExecRunner
	}
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	out, err := run(ctx, "amixer", "-D", device, "scontrols")
	if err != nil {
		return fmt.Errorf("error listing volume controls for %s: %w", device, err)
	}

	fmt.Fprintf(w, "Volume controls for %s\n", device)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		// Simple mixer control 'Master',0
		line := scanner.Text()
		start := strings.IndexByte(line, '\'')
		end := strings.LastIndexByte(line, '\'')
		if start < 0 || end <= start {
			continue
		}
		fmt.Fprintf(w, "   %s\n", line[start+1:end])
	}
	fmt.Fprintln(w)
	return scanner.Err()
}
