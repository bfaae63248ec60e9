package config

import (
	"strings"
	"time"
)

// DSDFormat is the physical encoding used to carry DSD to the output device.
type DSDFormat int

const (
	DSDFormatPCM DSDFormat = iota
	DSDFormatDoP
	DSDFormatU8
	DSDFormatU16LE
	DSDFormatU32LE
	DSDFormatU16BE
	DSDFormatU32BE
	DSDFormatDoP24
	DSDFormatDoP24_3
)

var dsdFormatNames = map[DSDFormat]string{
	DSDFormatPCM:     "pcm",
	DSDFormatDoP:     "dop",
	DSDFormatU8:      "u8",
	DSDFormatU16LE:   "u16le",
	DSDFormatU32LE:   "u32le",
	DSDFormatU16BE:   "u16be",
	DSDFormatU32BE:   "u32be",
	DSDFormatDoP24:   "dop24",
	DSDFormatDoP24_3: "dop24_3",
}

func (f DSDFormat) String() string {
	if name, ok := dsdFormatNames[f]; ok {
		return name
	}
	return "unknown"
}

// IsNative reports whether the format carries raw DSD rather than DoP frames.
func (f DSDFormat) IsNative() bool {
	switch f {
	case DSDFormatU8, DSDFormatU16LE, DSDFormatU32LE, DSDFormatU16BE, DSDFormatU32BE:
		return true
	}
	return false
}

// ParseDSDFormat looks up a -D format token. "pcm" is not selectable.
func ParseDSDFormat(s string) (DSDFormat, bool) {
	for f, name := range dsdFormatNames {
		if f != DSDFormatPCM && name == s {
			return f, true
		}
	}
	return DSDFormatPCM, false
}

// DSDConfig describes DSD output support.
type DSDConfig struct {
	Enabled bool
	Format  DSDFormat
	Delay   time.Duration
}

// ParseDSD builds the DSD settings for -D with its optional inline
// "<delay>[:<format>]" token. Unknown formats are ignored and leave DoP.
func ParseDSD(token string) (DSDConfig, error) {
	cfg := DSDConfig{Enabled: true, Format: DSDFormatDoP}
	if token == "" {
		return cfg, nil
	}

	dstr, fstr, _ := strings.Cut(token, ":")
	if dstr != "" {
		d, err := ParseMillis(dstr)
		if err != nil {
			return DSDConfig{}, err
		}
		cfg.Delay = d
	}
	if f, ok := ParseDSDFormat(fstr); ok {
		cfg.Format = f
	}
	return cfg, nil
}
