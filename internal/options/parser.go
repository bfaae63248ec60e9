// Package options turns the player command line into a config.Config.
//
// The grammar is a fixed set of single character flags introduced by '-'.
// Value flags consume the next argument, switches consume nothing, and a few
// switches take the next argument only when it does not start with '-'.
package options

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/provide-io/slimplayer/internal/config"
)

// Action is what the caller should do once parsing has finished.
type Action int

const (
	ActionRun Action = iota
	ActionListDevices
	ActionListMixers
	ActionLicense
	ActionHelp
)

func (a Action) String() string {
	switch a {
	case ActionListDevices:
		return "list-devices"
	case ActionListMixers:
		return "list-mixers"
	case ActionLicense:
		return "license"
	case ActionHelp:
		return "help"
	default:
		return "run"
	}
}

const (
	valueFlags    = "oabcCdefmMnNpPrsUV"
	switchFlags   = "ltxz?Lv"
	optionalFlags = "RuDi"
)

// Result carries the parse outcome besides the configuration itself.
type Result struct {
	Action Action
	// Warnings are non-fatal problems to report once logging is up
	Warnings []string
}

// Parse applies args (without the program name) on top of cfg.
//
// Informational flags (-l, -L, -t, -?) stop parsing as soon as they are seen
// and return the matching Action. All user input problems are returned as
// *UsageError.
func Parse(args []string, cfg *config.Config) (*Result, error) {
	res := &Result{Action: ActionRun}
	mixerSet := false

	i := 0
	for i < len(args) {
		tok := args[i]
		if len(tok) < 2 || tok[0] != '-' {
			break
		}
		if len(tok) != 2 {
			return nil, usageErrorf(ErrUnknownOption, "Option error: %s", tok)
		}
		flag := tok[1]
		i++

		var value string
		switch {
		case strings.IndexByte(valueFlags, flag) >= 0:
			if i >= len(args) {
				return nil, usageErrorf(ErrMissingValue, "Option error: %s", tok)
			}
			value = args[i]
			i++
		case strings.IndexByte(optionalFlags, flag) >= 0:
			if i < len(args) && !strings.HasPrefix(args[i], "-") {
				value = args[i]
				i++
			}
		case strings.IndexByte(switchFlags, flag) >= 0:
		default:
			return nil, usageErrorf(ErrUnknownOption, "Option error: %s", tok)
		}

		switch flag {
		case 'o':
			cfg.OutputDevice = value
		case 'a':
			cfg.OutputParams = value
		case 'b':
			stream, output, _ := strings.Cut(value, ":")
			if stream != "" {
				kb, err := parseCount(stream, maxBufferKB)
				if err != nil {
					return nil, usageErrorf(err, "Error: invalid buffer size: %s", value)
				}
				cfg.StreamBufSize = kb * 1024
			}
			if output != "" {
				kb, err := parseCount(output, maxBufferKB)
				if err != nil {
					return nil, usageErrorf(err, "Error: invalid buffer size: %s", value)
				}
				cfg.OutputBufSize = kb * 1024
			}
		case 'c':
			cfg.IncludeCodecs = config.SplitCodecs(value)
		case 'C':
			secs, err := parseCount(value, maxIdleSeconds)
			if err != nil {
				return nil, usageErrorf(err, "Error: invalid idle timeout: %s", value)
			}
			if secs > 0 {
				cfg.IdleTimeout = time.Duration(secs) * time.Second
			}
		case 'd':
			err := cfg.LogLevels.Set(value)
			switch {
			case errors.Is(err, config.ErrUnknownLog):
				res.Warnings = append(res.Warnings, "ignoring debug setting: "+err.Error())
			case err != nil:
				return nil, usageErrorf(err, "Debug settings error: -d %s", value)
			}
		case 'e':
			cfg.ExcludeCodecs = config.SplitCodecs(value)
		case 'f':
			cfg.LogFile = value
		case 'm':
			mac, err := config.ParseMAC(value, cfg.MAC)
			switch {
			case errors.Is(err, config.ErrReservedMAC):
				res.Warnings = append(res.Warnings, err.Error())
			case err != nil:
				return nil, usageErrorf(err, "Error: invalid mac address: %s", value)
			}
			cfg.MAC = mac
		case 'M':
			cfg.ModelName = value
		case 'n':
			cfg.Name = value
		case 'N':
			cfg.NameFile = value
		case 'p':
			prio, err := strconv.Atoi(value)
			if err != nil || prio < config.MinRTPriority || prio > config.MaxRTPriority {
				return nil, usageErrorf(config.ErrInvalidPriority, "Error: invalid priority: %s", value)
			}
			cfg.RTPriority = prio
		case 'P':
			cfg.PIDFile = value
		case 'r':
			rates, delay, err := config.ParseRateSpec(value)
			if err != nil {
				return nil, usageErrorf(err, "Error: invalid sample rates: %s", value)
			}
			cfg.Rates = rates
			cfg.RateDelay = delay
		case 's':
			cfg.Server = value
		case 'U', 'V':
			if mixerSet {
				return nil, &UsageError{Msg: config.ErrMixerConflict.Error(), Err: config.ErrMixerConflict}
			}
			mixerSet = true
			cfg.Mixer = value
			cfg.MixerUnmute = flag == 'U'
		case 'x':
			cfg.DisableDownsample = true
		case 'z':
			cfg.Daemonize = true
		case 'v':
			cfg.Visualizer = true
		case 'R', 'u':
			cfg.Resample = true
			cfg.ResampleRecipe = value
		case 'D':
			dsd, err := config.ParseDSD(value)
			if err != nil {
				return nil, usageErrorf(err, "Error: invalid DSD settings: %s", value)
			}
			cfg.DSD = dsd
		case 'i':
			cfg.IR = true
			cfg.LIRCConfig = value
			if value == "" {
				cfg.LIRCConfig = config.DefaultLIRCConfig
			}
		case 'l':
			res.Action = ActionListDevices
			return res, nil
		case 'L':
			res.Action = ActionListMixers
			return res, nil
		case 't':
			res.Action = ActionLicense
			return res, nil
		case '?':
			res.Action = ActionHelp
			return res, nil
		}
	}

	if i < len(args) {
		return nil, usageErrorf(ErrTrailingArgs, "Error: command line argument error: %s", args[i])
	}

	if cfg.Name != "" && cfg.NameFile != "" {
		return nil, &UsageError{Msg: config.ErrNameConflict.Error(), Err: config.ErrNameConflict}
	}

	return res, nil
}

// Upper bounds for -b and -C; byte and second counts must fit a 32-bit int.
const (
	maxBufferKB    = math.MaxInt32 / 1024
	maxIdleSeconds = math.MaxInt32
)

// parseCount parses a decimal count in [0, limit].
func parseCount(s string, limit int64) (int, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 || v > limit {
		return 0, ErrInvalidNumber
	}
	return int(v), nil
}
