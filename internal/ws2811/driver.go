// Package ws2811 binds the rpi_ws281x PWM/DMA LED engine: channel
// validation, driver lifecycle and frame transfer.
package ws2811

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/coreman2200/ledmatrix/model"
)

const (
	DefaultFrequency  uint32 = 800000 // WS2811_TARGET_FREQ
	DefaultDMAChannel        = 10
	DefaultBrightness uint8  = 255
)

// Options configures Open.
type Options struct {
	Frequency  uint32
	DMAChannel int
	Channels   [2]ChannelConfig
	Logger     *zerolog.Logger
}

// DefaultOptions returns 800kHz on DMA 10 with both channels inactive.
func DefaultOptions() Options {
	return Options{
		Frequency:  DefaultFrequency,
		DMAChannel: DefaultDMAChannel,
		Channels: [2]ChannelConfig{
			{Brightness: DefaultBrightness},
			{Brightness: DefaultBrightness},
		},
	}
}

// SingleChannel drives count LEDs on pin with channel 2 inactive.
func SingleChannel(count, pin int) Options {
	o := DefaultOptions()
	o.Channels[0].LEDCount = count
	o.Channels[0].GPIOPin = pin
	return o
}

// DualChannel drives both PWM channels.
func DualChannel(count1, pin1, count2, pin2 int) Options {
	o := SingleChannel(count1, pin1)
	o.Channels[1].LEDCount = count2
	o.Channels[1].GPIOPin = pin2
	return o
}

var (
	claimsMu sync.Mutex
	claims   = map[int]bool{}
)

func claimDMA(dma int) bool {
	claimsMu.Lock()
	defer claimsMu.Unlock()
	if claims[dma] {
		return false
	}
	claims[dma] = true
	return true
}

func releaseDMA(dma int) {
	claimsMu.Lock()
	defer claimsMu.Unlock()
	delete(claims, dma)
}

// Driver owns an initialized engine and the current frame for both channels.
// It is not safe for concurrent use except for Close.
type Driver struct {
	mu     sync.Mutex
	engine Engine
	cfg    EngineConfig
	bufs   [2][]model.Color
	closed bool
	log    zerolog.Logger
}

// Open validates opts, initializes the engine and allocates the channel
// buffers. Callers must Close the driver on every exit path.
func Open(engine Engine, opts Options) (*Driver, error) {
	for i, ch := range opts.Channels {
		if err := ch.Validate(i + 1); err != nil {
			return nil, err
		}
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	logger = logger.With().Str("component", "ws2811").Int("dma", opts.DMAChannel).Logger()

	if !claimDMA(opts.DMAChannel) {
		return nil, fmt.Errorf("dma %d: %w", opts.DMAChannel, ErrDMAInUse)
	}

	d := &Driver{
		engine: engine,
		log:    logger,
		cfg: EngineConfig{
			Frequency:  opts.Frequency,
			DMAChannel: opts.DMAChannel,
		},
	}
	for i, ch := range opts.Channels {
		d.cfg.Channels[i] = EngineChannel{
			GPIOPin:    ch.GPIOPin,
			Invert:     ch.Invert,
			LEDCount:   ch.LEDCount,
			Brightness: ch.Brightness,
			StripType:  ch.StripType,
		}
	}

	if st := engine.Init(&d.cfg); !st.OK() {
		releaseDMA(opts.DMAChannel)
		logger.Error().Stringer("status", st).Msg("engine init failed")
		return nil, &InitError{Status: st}
	}

	for i := range d.cfg.Channels {
		ch := &d.cfg.Channels[i]
		if len(ch.LEDs) != ch.LEDCount {
			err := fmt.Errorf("channel %d: engine exposed %d LEDs, configured %d",
				i+1, len(ch.LEDs), ch.LEDCount)
			d.Close()
			return nil, err
		}
		d.bufs[i] = make([]model.Color, ch.LEDCount)
	}

	logger.Info().
		Uint32("freq", opts.Frequency).
		Int("ch1_count", opts.Channels[0].LEDCount).
		Int("ch1_gpio", opts.Channels[0].GPIOPin).
		Int("ch2_count", opts.Channels[1].LEDCount).
		Int("ch2_gpio", opts.Channels[1].GPIOPin).
		Msg("driver initialized")
	return d, nil
}

// Channel returns the writable frame buffer for channel i (0 or 1). Writes
// reach the hardware on the next Render.
func (d *Driver) Channel(i int) []model.Color {
	return d.bufs[i]
}

// LEDCount returns the configured LED count of channel i.
func (d *Driver) LEDCount(i int) int {
	return d.cfg.Channels[i].LEDCount
}

// Brightness returns the engine brightness of channel i.
func (d *Driver) Brightness(i int) uint8 {
	return d.cfg.Channels[i].Brightness
}

// SetBrightness changes the engine brightness of channel i. It takes effect
// on the next Render.
func (d *Driver) SetBrightness(i int, b uint8) {
	d.cfg.Channels[i].Brightness = b
}

// Clear blanks both frame buffers without rendering.
func (d *Driver) Clear() {
	for _, buf := range d.bufs {
		for j := range buf {
			buf[j] = model.Black
		}
	}
}

// Render copies both frame buffers into the engine and starts a transfer.
// A failed transfer is returned to the caller and not retried.
func (d *Driver) Render() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	for i, buf := range d.bufs {
		leds := d.cfg.Channels[i].LEDs
		for j, c := range buf {
			leds[j] = c.Uint32()
		}
	}
	if st := d.engine.Render(&d.cfg); !st.OK() {
		d.log.Warn().Stringer("status", st).Msg("render failed")
		return &TransferError{Op: "render", Status: st}
	}
	return nil
}

// Wait blocks until the previous transfer completes.
func (d *Driver) Wait() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if st := d.engine.Wait(&d.cfg); !st.OK() {
		d.log.Warn().Stringer("status", st).Msg("wait failed")
		return &TransferError{Op: "wait", Status: st}
	}
	return nil
}

// Close finalizes the engine. It is safe to call more than once; only the
// first call reaches the engine.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.engine.Fini(&d.cfg)
	for i := range d.cfg.Channels {
		d.cfg.Channels[i].LEDs = nil
	}
	releaseDMA(d.cfg.DMAChannel)
	d.log.Info().Msg("driver closed")
	return nil
}
