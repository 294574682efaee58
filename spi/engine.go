// Package spi drives a WS2812 strip from an SPI port through periph.io's
// nrzled encoder. It implements ws2811.Engine so a Driver runs unchanged on
// hosts without PWM/DMA access.
package spi

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/coreman2200/ledmatrix/internal/ws2811"
	"github.com/coreman2200/ledmatrix/model"
)

// DefaultFreq is the SPI clock nrzled expects for 800kHz strips.
const DefaultFreq = 2500 * physic.KiloHertz

// Opener returns the SPI port named by dev. An empty name picks the first
// port registered with spireg.
type Opener func(dev string) (spi.PortCloser, error)

// Opts configures NewEngine.
type Opts struct {
	Dev    string
	Freq   physic.Frequency
	Open   Opener
	Logger *zerolog.Logger
}

// Engine renders channel 1 over SPI. Channel 2 must be inactive.
type Engine struct {
	mu   sync.Mutex
	opts Opts
	log  zerolog.Logger

	port     spi.PortCloser
	dev      *nrzled.Dev
	channels int
	raw      []byte
	err      error
}

var _ ws2811.Engine = (*Engine)(nil)

// NewEngine returns an engine that opens its port on Init.
func NewEngine(opts Opts) *Engine {
	if opts.Freq == 0 {
		opts.Freq = DefaultFreq
	}
	if opts.Open == nil {
		opts.Open = hostOpen
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Engine{
		opts: opts,
		log:  logger.With().Str("component", "spi").Logger(),
	}
}

func hostOpen(dev string) (spi.PortCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	return spireg.Open(dev)
}

// Err returns the error behind the last failed status.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func (e *Engine) fail(op string, err error) ws2811.Status {
	e.err = fmt.Errorf("%s: %w", op, err)
	e.log.Error().Err(err).Str("op", op).Msg("spi engine failure")
	return ws2811.StatusGeneric
}

func (e *Engine) Init(cfg *ws2811.EngineConfig) ws2811.Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := &cfg.Channels[0]
	if cfg.Channels[1].LEDCount > 0 {
		return e.fail("init", fmt.Errorf("spi drives a single channel, channel 2 has %d LEDs", cfg.Channels[1].LEDCount))
	}
	if ch.LEDCount == 0 {
		return e.fail("init", fmt.Errorf("channel 1 has no LEDs"))
	}

	port, err := e.opts.Open(e.opts.Dev)
	if err != nil {
		return e.fail("open", err)
	}

	e.channels = 3
	if ch.StripType.HasWhite() {
		e.channels = 4
	}
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: ch.LEDCount,
		Channels:  e.channels,
		Freq:      e.opts.Freq,
	})
	if err != nil {
		port.Close()
		return e.fail("nrzled", err)
	}

	e.port = port
	e.dev = dev
	e.raw = make([]byte, ch.LEDCount*e.channels)
	ch.LEDs = make([]uint32, ch.LEDCount)
	cfg.Channels[1].LEDs = []uint32{}
	e.err = nil
	e.log.Info().Str("dev", e.opts.Dev).Stringer("freq", e.opts.Freq).Int("count", ch.LEDCount).Msg("spi engine ready")
	return ws2811.StatusSuccess
}

// Render encodes channel 1 with its brightness applied and writes it out.
func (e *Engine) Render(cfg *ws2811.EngineConfig) ws2811.Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := cfg.Channels[0]
	for i, v := range ch.LEDs {
		c := model.NewColor(v).Scale(ch.Brightness)
		p := e.raw[i*e.channels:]
		p[0], p[1], p[2] = c.R(), c.G(), c.B()
		if e.channels == 4 {
			p[3] = c.W()
		}
	}
	if _, err := e.dev.Write(e.raw); err != nil {
		return e.fail("render", err)
	}
	return ws2811.StatusSuccess
}

// Wait returns at once; nrzled writes are synchronous.
func (e *Engine) Wait(*ws2811.EngineConfig) ws2811.Status {
	return ws2811.StatusSuccess
}

// Fini blanks the strip and releases the port.
func (e *Engine) Fini(cfg *ws2811.EngineConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dev != nil {
		if err := e.dev.Halt(); err != nil {
			e.log.Warn().Err(err).Msg("halt")
		}
		e.dev = nil
	}
	if e.port != nil {
		if err := e.port.Close(); err != nil {
			e.log.Warn().Err(err).Msg("close port")
		}
		e.port = nil
	}
	e.raw = nil
	for i := range cfg.Channels {
		cfg.Channels[i].LEDs = nil
	}
}
