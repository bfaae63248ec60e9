package config

import "fmt"

// Resolve fills in derived values and validates the result. It is called
// once after parsing and before any subsystem starts.
func (c *Config) Resolve() error {
	c.OutputBufSize = OutputBufferSize(c.OutputBufSize, c.Resample, c.Rates)
	if c.ExcludeCodecs == nil {
		c.ExcludeCodecs = []string{}
	}
	if c.LogLevels == nil {
		c.LogLevels = LogLevels{}
	}
	return c.Validate()
}

// Validate checks cross-option invariants that later flags may have broken.
func (c *Config) Validate() error {
	if c.Name != "" && c.NameFile != "" {
		return ErrNameConflict
	}
	if c.RTPriority < MinRTPriority || c.RTPriority > MaxRTPriority {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, c.RTPriority)
	}
	if c.OutputBufSize <= 0 {
		return fmt.Errorf("%w: %d", ErrOutputBuffer, c.OutputBufSize)
	}
	if c.MAC.IsReserved() {
		return ErrReservedMAC
	}
	return nil
}
