package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/provide-io/slimplayer/internal/player"
)

const version = "0.1.0"

func getBuildTimestamp() string {
	// Try to get vcs.time from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	// Fallback to binary modification time
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// newRootCmd builds the command. Flags are parsed by the player itself: the
// single dash grammar with optional values does not fit pflag.
func newRootCmd(exitCode *int) *cobra.Command {
	return &cobra.Command{
		Use:                "slimplayer [options]",
		Short:              "Headless network audio player",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			argv := append([]string{os.Args[0]}, args...)
			*exitCode = player.Launch(cmd.Context(), argv, player.DefaultEnv())
			return nil
		},
	}
}

func main() {
	// Set up panic recovery to return specific exit code
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "PANIC: %v\n", r)
			debug.PrintStack()
			os.Exit(player.ExitPanic)
		}
	}()

	// Handle --version before the player parses its own flags; -V is the mixer flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("slimplayer %s\n", version)
		fmt.Printf("Built: %s\n", getBuildTimestamp())
		os.Exit(player.ExitOK)
	}

	exitCode := player.ExitOK
	rootCmd := newRootCmd(&exitCode)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(player.ExitError)
	}
	os.Exit(exitCode)
}
