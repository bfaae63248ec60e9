package config

// OutputBufferSize returns the output ring size in bytes.
//
// An explicit size always wins. Otherwise the default is used and, when
// resampling, scaled by the ratio of the highest requested rate to 44.1kHz
// clamped to [1, MaxBufferScale]; with no rate list the full scale applies.
func OutputBufferSize(explicit int, resample bool, rates RateList) int {
	if explicit > 0 {
		return explicit
	}

	size := DefaultOutputBufSize
	if !resample {
		return size
	}

	scale := MaxBufferScale
	if maxRate := rates.Max(); maxRate != 0 {
		scale = int(maxRate / BaseSampleRate)
		scale = min(max(scale, 1), MaxBufferScale)
	}
	return size * scale
}
