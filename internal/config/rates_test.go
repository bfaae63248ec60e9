package config

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"testing"
	"time"
)

func TestParseRateSpec_ExplicitList(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		expected  []uint32
		wantDelay time.Duration
	}{
		{
			name:     "unordered with repeats",
			spec:     "44100,48000,44100,96000",
			expected: []uint32{96000, 48000, 44100},
		},
		{
			name:     "already descending",
			spec:     "192000,96000,48000",
			expected: []uint32{192000, 96000, 48000},
		},
		{
			name:     "single rate with trailing comma",
			spec:     "44100,",
			expected: []uint32{44100},
		},
		{
			name:      "list with delay",
			spec:      "48000,44100:250",
			expected:  []uint32{48000, 44100},
			wantDelay: 250 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates, delay, err := ParseRateSpec(tt.spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := rates.Slice(); !slices.Equal(got, tt.expected) {
				t.Errorf("ParseRateSpec(%q) = %v, want %v", tt.spec, got, tt.expected)
			}
			if delay != tt.wantDelay {
				t.Errorf("delay = %v, want %v", delay, tt.wantDelay)
			}
			assertDescendingZeroPadded(t, rates)
		})
	}
}

func TestParseRateSpec_Range(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		expected []uint32
	}{
		{
			name:     "min and max",
			spec:     "48000-96000",
			expected: []uint32{96000, 88200, 48000},
		},
		{
			name:     "reversed bounds are swapped",
			spec:     "96000-48000",
			expected: []uint32{96000, 88200, 48000},
		},
		{
			name:     "max only takes the whole table below it",
			spec:     "96000",
			expected: []uint32{96000, 88200, 48000, 44100, 32000, 24000, 22050, 16000, 12000, 11025, 8000},
		},
		{
			name:     "max outside reference table",
			spec:     "50000",
			expected: []uint32{50000, 48000, 44100, 32000, 24000, 22050, 16000, 12000, 11025, 8000},
		},
		{
			name:     "min above every lower reference rate",
			spec:     "90000-96000",
			expected: []uint32{96000},
		},
		{
			name:     "empty rates use the default maximum",
			spec:     ":100",
			expected: ReferenceRates[:],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates, _, err := ParseRateSpec(tt.spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := rates.Slice(); !slices.Equal(got, tt.expected) {
				t.Errorf("ParseRateSpec(%q) = %v, want %v", tt.spec, got, tt.expected)
			}
			assertDescendingZeroPadded(t, rates)
		})
	}
}

func TestParseRateSpec_RangeDrawsFromReferenceTable(t *testing.T) {
	rates, _, err := ParseRateSpec("48000-96000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rates.Max() != 96000 {
		t.Fatalf("first rate = %d, want 96000", rates.Max())
	}
	for i, r := range rates.Slice()[1:] {
		if !slices.Contains(ReferenceRates[:], r) {
			t.Errorf("rate %d not in reference table", r)
		}
		if r >= rates[i] {
			t.Errorf("rate %d not below previous %d", r, rates[i])
		}
		if r < 48000 {
			t.Errorf("rate %d below minimum", r)
		}
	}
}

// More entries than slots are dropped rather than rejected.
func TestParseRateSpec_ListTruncatesAtCapacity(t *testing.T) {
	spec := ""
	for i := 1; i <= MaxSupportedRates+4; i++ {
		if spec != "" {
			spec += ","
		}
		spec += strconv.Itoa(i * 1000)
	}

	rates, _, err := ParseRateSpec(spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rates.Len() != MaxSupportedRates {
		t.Fatalf("Len() = %d, want %d", rates.Len(), MaxSupportedRates)
	}
	if rates.Max() != MaxSupportedRates*1000 {
		t.Errorf("Max() = %d, want %d", rates.Max(), MaxSupportedRates*1000)
	}
	if rates.Contains((MaxSupportedRates + 1) * 1000) {
		t.Errorf("rate beyond capacity was kept")
	}
}

func TestParseRateSpec_Errors(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr error
	}{
		{name: "non numeric list entry", spec: "44100,abc", wantErr: ErrInvalidRate},
		{name: "zero list entry", spec: "44100,0", wantErr: ErrInvalidRate},
		{name: "non numeric max", spec: "fast", wantErr: ErrInvalidRate},
		{name: "missing min", spec: "-96000", wantErr: ErrInvalidRate},
		{name: "bad delay", spec: "96000:soon", wantErr: ErrInvalidDelay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseRateSpec(tt.spec)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseRateSpec(%q) error = %v, want %v", tt.spec, err, tt.wantErr)
			}
		})
	}
}

func TestNewRateList_KeepsLargestRate(t *testing.T) {
	rates := NewRateList(44100, math.MaxUint32, 48000, math.MaxUint32)
	want := []uint32{math.MaxUint32, 48000, 44100}
	if got := rates.Slice(); !slices.Equal(got, want) {
		t.Errorf("NewRateList() = %v, want %v", got, want)
	}

	rates, _, err := ParseRateSpec("4294967295,8000")
	if err != nil {
		t.Fatalf("ParseRateSpec() error = %v", err)
	}
	if rates.Max() != math.MaxUint32 || rates.Len() != 2 {
		t.Errorf("ParseRateSpec() = %v, want [4294967295 8000]", rates.Slice())
	}
}

func TestNewRateList_Empty(t *testing.T) {
	rates := NewRateList()
	if rates.Len() != 0 || rates.Max() != 0 {
		t.Errorf("NewRateList() = %v, want empty", rates)
	}
}

func assertDescendingZeroPadded(t *testing.T, rates RateList) {
	t.Helper()
	n := rates.Len()
	for i := 1; i < n; i++ {
		if rates[i] >= rates[i-1] {
			t.Errorf("rates not strictly descending at %d: %v", i, rates)
		}
	}
	for i := n; i < len(rates); i++ {
		if rates[i] != 0 {
			t.Errorf("slot %d = %d, want zero padding", i, rates[i])
		}
	}
}
