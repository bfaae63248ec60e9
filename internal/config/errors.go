package config

import "errors"

var (
	// Identity errors 🪪
	ErrNameConflict = errors.New("-n and -N option should not be used at same time")
	ErrReservedMAC  = errors.New("ignoring mac address from hardware player range 00:04:20:**:**:**")
	ErrInvalidMAC   = errors.New("invalid mac address")

	// Output errors 🔊
	ErrMixerConflict   = errors.New("-U and -V option should not be used at same time")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidRate     = errors.New("invalid sample rate")
	ErrInvalidDelay    = errors.New("invalid delay")
	ErrOutputBuffer    = errors.New("output buffer size must be positive")

	// Logging errors 📝
	ErrInvalidLogSpec = errors.New("debug settings error")
	ErrUnknownLog     = errors.New("unknown log name")
)
