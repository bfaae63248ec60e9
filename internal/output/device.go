package output

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/slimplayer/internal/ringbuf"
)

// Default device open parameters, used for parts of -a left empty.
const (
	DefaultBufferTime  = 40 // ms
	DefaultPeriodCount = 4
)

// DeviceParams are the -a settings for a sound device:
// <buffer>:<period>:<format>:<mmap>.
type DeviceParams struct {
	// Buffer is a time in ms when below 500, otherwise a size in bytes
	Buffer int
	// Period is a count when below 50, otherwise a size in bytes
	Period int
	// Format is nil to let the device pick
	Format *SampleFormat
	MMap   bool
}

var deviceFormats = map[string]SampleFormat{
	"16":   FormatS16LE,
	"24":   FormatS24LE,
	"24_3": FormatS24_3LE,
	"32":   FormatS32LE,
}

// ParseDeviceParams parses the device -a value.
func ParseDeviceParams(s string) (DeviceParams, error) {
	dp := DeviceParams{Buffer: DefaultBufferTime, Period: DefaultPeriodCount, MMap: true}
	if s == "" {
		return dp, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 4 {
		return dp, fmt.Errorf("%w: %s", ErrInvalidParams, s)
	}

	parseNum := func(v string) (int, error) {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("%w: %s", ErrInvalidParams, s)
		}
		return n, nil
	}

	var err error
	if parts[0] != "" {
		if dp.Buffer, err = parseNum(parts[0]); err != nil {
			return dp, err
		}
	}
	if len(parts) > 1 && parts[1] != "" {
		if dp.Period, err = parseNum(parts[1]); err != nil {
			return dp, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		f, ok := deviceFormats[parts[2]]
		if !ok {
			return dp, fmt.Errorf("%w: unknown sample format %s", ErrInvalidParams, parts[2])
		}
		dp.Format = &f
	}
	if len(parts) > 3 && parts[3] != "" {
		switch parts[3] {
		case "0":
			dp.MMap = false
		case "1":
			dp.MMap = true
		default:
			return dp, fmt.Errorf("%w: mmap must be 0 or 1", ErrInvalidParams)
		}
	}
	return dp, nil
}

// Device plays through a named sound device.
type Device struct {
	logger hclog.Logger
	run    CommandRunner

	mu     sync.Mutex
	params Params
	dev    DeviceParams
	ring   *ringbuf.Buffer
	open   bool
	idle   *time.Timer
}

// NewDevice returns an uninitialized device backend. run is used for mixer
// commands and may be nil to use the system amixer.
func NewDevice(logger hclog.Logger, run CommandRunner) *Device {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if run == nil {
		run = ExecRunner
	}
	return &Device{logger: logger, run: run}
}

// Kind implements the output backend contract.
func (d *Device) Kind() Kind {
	return KindDevice
}

// Init validates the device settings, allocates the output buffer and
// applies the mixer settings.
func (d *Device) Init(p Params) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ring != nil {
		return ErrAlreadyInitialized
	}
	if p.BufSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, p.BufSize)
	}
	dev, err := ParseDeviceParams(p.Params)
	if err != nil {
		return err
	}

	d.params = p
	d.dev = dev
	d.ring = ringbuf.New(p.BufSize)
	d.open = true

	d.logger.Info("init output", "device", p.Device, "outputbuf_size", p.BufSize,
		"buffer", dev.Buffer, "period", dev.Period, "mmap", dev.MMap,
		"max_rate", p.Rates.Max(), "rate_delay", p.RateDelay, "rt_priority", p.RTPriority)

	if p.Mixer != "" {
		d.applyMixer(p)
	}

	if p.IdleTimeout > 0 {
		d.idle = time.AfterFunc(p.IdleTimeout, d.closeIdle)
	}
	return nil
}

func (d *Device) applyMixer(p Params) {
	args := []string{"-D", p.Device, "sset", p.Mixer}
	if p.MixerUnmute {
		args = append(args, "unmute", "100%")
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if _, err := d.run(ctx, "amixer", args...); err != nil {
		d.logger.Warn("⚠️ Mixer control not available", "control", p.Mixer, "error", err)
		return
	}
	d.logger.Debug("🔊 Mixer control set", "control", p.Mixer, "unmute", p.MixerUnmute)
}

func (d *Device) closeIdle() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open {
		d.open = false
		d.logger.Info("💤 Closing idle output device", "device", d.params.Device)
	}
}

// MarkActive reopens an idle device and restarts the idle timer.
func (d *Device) MarkActive() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ring == nil {
		return
	}
	if !d.open {
		d.open = true
		d.logger.Debug("reopening output device", "device", d.params.Device)
	}
	if d.idle != nil {
		d.idle.Reset(d.params.IdleTimeout)
	}
}

// IsOpen reports whether the device is currently held open.
func (d *Device) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// DeviceParams returns the parsed -a settings.
func (d *Device) DeviceParams() DeviceParams {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dev
}

// Ring returns the output buffer, nil before Init or after Close.
func (d *Device) Ring() *ringbuf.Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ring
}

// Close releases the device.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ring == nil {
		return nil
	}
	if d.idle != nil {
		d.idle.Stop()
		d.idle = nil
	}
	d.ring = nil
	d.open = false
	d.logger.Debug("close output", "device", d.params.Device)
	return nil
}
