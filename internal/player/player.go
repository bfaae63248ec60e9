// Package player wires the option parser, the configuration and the
// subsystems into a running player process.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/slimplayer/internal/config"
	"github.com/provide-io/slimplayer/internal/decode"
	"github.com/provide-io/slimplayer/internal/dsd"
	"github.com/provide-io/slimplayer/internal/lifecycle"
	"github.com/provide-io/slimplayer/internal/options"
	"github.com/provide-io/slimplayer/internal/output"
	"github.com/provide-io/slimplayer/internal/process"
	"github.com/provide-io/slimplayer/internal/remote"
	"github.com/provide-io/slimplayer/internal/resample"
	"github.com/provide-io/slimplayer/internal/slimproto"
	"github.com/provide-io/slimplayer/internal/stream"
	"github.com/provide-io/slimplayer/internal/vis"
	"github.com/provide-io/slimplayer/pkg/logging"
	"github.com/provide-io/slimplayer/pkg/utils/shellparse"
)

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitPanic = 101
)

// Env is the outside world seen by Launch.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	// Runner runs aplay and amixer; nil uses os/exec
	Runner output.CommandRunner
	// MachineMAC returns the default player mac; nil reads the network interfaces
	MachineMAC func() config.MAC
}

// DefaultEnv uses the process streams and environment.
func DefaultEnv() Env {
	return Env{Stdout: os.Stdout, Stderr: os.Stderr, Getenv: os.Getenv}
}

func (e *Env) fill() {
	if e.Stdout == nil {
		e.Stdout = os.Stdout
	}
	if e.Stderr == nil {
		e.Stderr = os.Stderr
	}
	if e.Getenv == nil {
		e.Getenv = os.Getenv
	}
	if e.MachineMAC == nil {
		e.MachineMAC = process.MachineMAC
	}
}

// hclogLevel maps a -d level onto the logger level.
func hclogLevel(l config.LogLevel) hclog.Level {
	switch l {
	case config.LogInfo:
		return hclog.Info
	case config.LogDebug:
		return hclog.Debug
	case config.LogSDebug:
		return hclog.Trace
	default:
		return hclog.Warn
	}
}

// Launch runs the player for args (program name first) and returns the
// process exit code.
func Launch(ctx context.Context, args []string, env Env) int {
	env.fill()

	argv0 := "slimplayer"
	if len(args) > 0 {
		argv0 = filepath.Base(args[0])
		args = args[1:]
	}

	cfg := config.Default(env.MachineMAC())
	cfg.CmdLine = append([]string{argv0}, args...)

	res, err := options.Parse(args, cfg)
	if err != nil {
		return usageFailure(env.Stderr, argv0, err)
	}

	switch res.Action {
	case options.ActionHelp:
		options.Usage(env.Stdout, argv0)
		return ExitOK
	case options.ActionLicense:
		options.License(env.Stdout)
		return ExitOK
	case options.ActionListDevices:
		if err := output.ListDevices(ctx, env.Stdout, env.Runner); err != nil {
			fmt.Fprintf(env.Stderr, "%v\n", err)
		}
		return ExitOK
	case options.ActionListMixers:
		if err := output.ListMixers(ctx, env.Stdout, cfg.OutputDevice, env.Runner); err != nil {
			fmt.Fprintf(env.Stderr, "%v\n", err)
		}
		return ExitOK
	}

	if err := cfg.Resolve(); err != nil {
		return usageFailure(env.Stderr, argv0, err)
	}

	logOut, closeLog := logging.OpenOutput(cfg.LogFile, env.Stderr)
	defer func() { _ = closeLog() }()
	if f, ok := logOut.(*os.File); ok && cfg.LogFile != "" && f.Name() == cfg.LogFile {
		if cfg.LogLevels.AnyAtLeast(config.LogInfo) {
			fmt.Fprintf(logOut, "\n%s\n", shellparse.Join(cfg.CmdLine))
		}
	}

	logger := logging.NewLogger(argv0, logging.GetLogLevel(), logOut)
	for _, w := range res.Warnings {
		logger.Warn("⚠️ " + w)
	}

	var pidFile *process.PIDFile
	if cfg.PIDFile != "" {
		pidFile, err = process.OpenPIDFile(cfg.PIDFile, logger.Named("process"))
		if err != nil {
			fmt.Fprintf(env.Stderr, "%v\n", err)
			return ExitError
		}
	}

	if cfg.Daemonize && !process.IsDaemonChild(env.Getenv) {
		pid, err := process.Daemonize(args, process.DaemonOptions{
			KeepStdio: cfg.LogFile != "" || cfg.UsesStdout(),
			Stdout:    env.Stdout,
			Stderr:    env.Stderr,
		}, logger.Named("process"))
		if err == nil {
			if pidFile != nil {
				if err := pidFile.Write(pid); err != nil {
					fmt.Fprintf(env.Stderr, "%v\n", err)
					return ExitError
				}
			}
			return ExitOK
		}
		fmt.Fprintf(env.Stderr, "%v\n", err)
	}

	if pidFile != nil {
		if err := pidFile.Write(os.Getpid()); err != nil {
			fmt.Fprintf(env.Stderr, "%v\n", err)
			return ExitError
		}
	}

	return run(ctx, cfg, env, logger, pidFile)
}

// run drives the lifecycle from Configured to Terminated.
func run(ctx context.Context, cfg *config.Config, env Env, logger hclog.Logger, pidFile *process.PIDFile) int {
	levels := make(map[string]hclog.Level, len(config.Subsystems))
	for _, s := range config.Subsystems {
		levels[string(s)] = hclogLevel(cfg.LogLevels.Level(s))
	}
	logs := logging.NewPlayerLoggers(logger, levels)

	outLog := logs[string(config.SubsystemOutput)]
	decLog := logs[string(config.SubsystemDecode)]
	subs := lifecycle.Subsystems{
		Stream: stream.New(logs[string(config.SubsystemStream)]),
		Outputs: map[output.Kind]lifecycle.OutputBackend{
			output.KindStdout: output.NewStdout(env.Stdout, outLog),
			output.KindDevice: output.NewDevice(outLog, env.Runner),
		},
		DSD:        dsd.New(outLog),
		Visualizer: vis.New(outLog),
		Decoder:    decode.New(decLog),
		Resampler:  resample.New(decLog),
		Remote:     remote.New(logs[string(config.SubsystemIR)], ""),
		Protocol:   slimproto.New(logs[string(config.SubsystemSlimproto)]),
	}

	var opts []lifecycle.Option
	if pidFile != nil {
		opts = append(opts, lifecycle.WithPIDFile(pidFile))
	}
	orch := lifecycle.New(subs, logger.Named("lifecycle"), opts...)

	shutdown := lifecycle.NewShutdownController(logger)
	ctx = shutdown.Start(ctx)
	defer shutdown.Done()

	if err := orch.Configure(cfg); err != nil {
		logger.Error("❌ Invalid configuration", "error", err)
		return ExitError
	}

	if err := orch.StartSubsystems(); err != nil {
		logger.Error("❌ Failed to start player", "error", err)
		if termErr := orch.Terminate(); termErr != nil {
			logger.Debug("terminate after failed start", "error", termErr)
		}
		return ExitError
	}

	logger.Info("🎵 Player running", "mac", cfg.MAC.String(), "output", cfg.OutputDevice, "server", serverLabel(cfg.Server))

	if err := orch.Run(ctx); err != nil {
		logger.Error("❌ Run loop failed", "error", err)
	}
	if err := orch.StopSubsystems(); err != nil {
		logger.Warn("⚠️ Errors while closing subsystems", "error", err)
	}
	if err := orch.Terminate(); err != nil {
		logger.Error("❌ Failed to terminate", "error", err)
		return ExitError
	}

	logger.Info("👋 Player stopped")
	return ExitOK
}

func serverLabel(server string) string {
	if server == "" {
		return "discovery"
	}
	return server
}

// usageFailure prints err and the usage text.
func usageFailure(stderr io.Writer, argv0 string, err error) int {
	var ue *options.UsageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "\n%s\n\n", ue.Msg)
	} else {
		fmt.Fprintf(stderr, "\nError: %v\n\n", err)
	}
	options.Usage(stderr, argv0)
	return ExitError
}
