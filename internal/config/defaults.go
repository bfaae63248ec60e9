package config

// =================================
// Buffer defaults
// =================================
const (
	DefaultStreamBufSize = 2 * 1024 * 1024 // 2MB of compressed stream
	DefaultOutputBufSize = 44100 * 8 * 10  // 10 seconds of 44.1kHz 32bit stereo
	BaseSampleRate       = 44100
	MaxBufferScale       = 8
)

// =================================
// Sample rate defaults
// =================================
const (
	// MaxSupportedRates is the capacity of a RateList. A full list has no zero slot.
	MaxSupportedRates = 18
)

// ReferenceRates is the descending table probed by the range form of -r.
// ReferenceRates[0] is the default maximum when no rate is given.
var ReferenceRates = [...]uint32{
	768000, 705600, 384000, 352800, 192000, 176400, 96000, 88200,
	48000, 44100, 32000, 24000, 22050, 16000, 12000, 11025, 8000,
}

// =================================
// Output defaults
// =================================
const (
	DefaultOutputDevice = "default"
	StdoutDevice        = "-"
	DefaultRTPriority   = 45
	MinRTPriority       = 1
	MaxRTPriority       = 99
)

// =================================
// Identity defaults
// =================================
const (
	DefaultModelName  = "SqueezeLite"
	DefaultLIRCConfig = "~/.lircrc"
)

// ReservedMACPrefix is the vendor range used by hardware players.
var ReservedMACPrefix = [3]byte{0x00, 0x04, 0x20}

// =================================
// Codec defaults
// =================================

// KnownCodecs lists the codec identifiers accepted by -c and -e.
var KnownCodecs = []string{"flac", "pcm", "mp3", "ogg", "aac", "wma", "alac", "dsd", "mad", "mpg"}
