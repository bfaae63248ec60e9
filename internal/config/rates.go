package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RateList is a strictly descending, duplicate free list of sample rates.
// Unused slots past Len are zero.
type RateList [MaxSupportedRates]uint32

// NewRateList orders values from highest to lowest and drops duplicates.
// Only the first MaxSupportedRates values are considered.
func NewRateList(values ...uint32) RateList {
	var candidates RateList
	copy(candidates[:], values)

	var rates RateList
	var last uint32
	for i := range rates {
		var largest uint32
		for _, c := range candidates {
			if c > largest && (i == 0 || c < last) {
				largest = c
			}
		}
		if largest == 0 {
			break
		}
		rates[i] = largest
		last = largest
	}
	return rates
}

// NewRateRange starts with max and adds every reference rate below the
// previous entry and not below min. Reversed bounds are swapped.
func NewRateRange(minRate, maxRate uint32) RateList {
	if maxRate < minRate {
		minRate, maxRate = maxRate, minRate
	}

	var rates RateList
	rates[0] = maxRate
	j := 1
	for _, ref := range ReferenceRates {
		if j >= len(rates) {
			break
		}
		if ref < rates[j-1] && ref >= minRate {
			rates[j] = ref
			j++
		}
	}
	return rates
}

// Len returns the number of populated slots.
func (r RateList) Len() int {
	for i, v := range r {
		if v == 0 {
			return i
		}
	}
	return len(r)
}

// Max returns the highest rate, or zero for an empty list.
func (r RateList) Max() uint32 {
	return r[0]
}

// Slice returns the populated rates.
func (r RateList) Slice() []uint32 {
	out := make([]uint32, r.Len())
	copy(out, r[:])
	return out
}

// Contains reports whether rate is listed.
func (r RateList) Contains(rate uint32) bool {
	for _, v := range r[:r.Len()] {
		if v == rate {
			return true
		}
	}
	return false
}

// ParseRateSpec parses the -r value "<rates>[:<delay>]" where rates is
// "<max>", "<min>-<max>" or "<rate1>,<rate2>,...". The delay is in
// milliseconds.
func ParseRateSpec(spec string) (RateList, time.Duration, error) {
	rstr, dstr, _ := strings.Cut(spec, ":")

	var delay time.Duration
	if dstr != "" {
		d, err := ParseMillis(dstr)
		if err != nil {
			return RateList{}, 0, err
		}
		delay = d
	}

	if strings.Contains(rstr, ",") {
		var values []uint32
		for _, field := range strings.Split(rstr, ",") {
			if field == "" {
				continue
			}
			if len(values) == MaxSupportedRates {
				break
			}
			v, err := parseRate(field)
			if err != nil {
				return RateList{}, 0, err
			}
			values = append(values, v)
		}
		return NewRateList(values...), delay, nil
	}

	if rstr == "" {
		return NewRateRange(0, ReferenceRates[0]), delay, nil
	}

	lo, hi, isRange := strings.Cut(rstr, "-")
	if !isRange {
		maxRate, err := parseRate(rstr)
		if err != nil {
			return RateList{}, 0, err
		}
		return NewRateRange(0, maxRate), delay, nil
	}

	minRate, err := parseRate(lo)
	if err != nil {
		return RateList{}, 0, err
	}
	maxRate, err := parseRate(hi)
	if err != nil {
		return RateList{}, 0, err
	}
	return NewRateRange(minRate, maxRate), delay, nil
}

func parseRate(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}
	return uint32(v), nil
}

// ParseMillis parses a non-negative millisecond count.
func ParseMillis(s string) (time.Duration, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelay, s)
	}
	return time.Duration(v) * time.Millisecond, nil
}
