package main

import (
	"testing"

	"github.com/provide-io/slimplayer/internal/player"
)

func TestRootCommandPassesFlagsThrough(t *testing.T) {
	exitCode := -1
	cmd := newRootCmd(&exitCode)
	cmd.SetArgs([]string{"-t"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if exitCode != player.ExitOK {
		t.Errorf("exit code = %d, want %d", exitCode, player.ExitOK)
	}
}

func TestRootCommandUsageError(t *testing.T) {
	exitCode := -1
	cmd := newRootCmd(&exitCode)
	cmd.SetArgs([]string{"-Z"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if exitCode != player.ExitError {
		t.Errorf("exit code = %d, want %d", exitCode, player.ExitError)
	}
}

func TestBuildTimestamp(t *testing.T) {
	if getBuildTimestamp() == "" {
		t.Error("empty build timestamp")
	}
}
