// Package sim is a ws2811.Engine that draws frames to a terminal instead of
// hardware.
package sim

import (
	"image"
	"sync"

	"github.com/rs/zerolog"
	"periph.io/x/extra/devices/screen"

	"github.com/coreman2200/ledmatrix/internal/ws2811"
	"github.com/coreman2200/ledmatrix/model"
)

// Drawer is the part of a periph display the engine needs.
type Drawer interface {
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// Opts configures New. NewDrawer defaults to periph's ANSI console screen.
type Opts struct {
	NewDrawer func(pixels int) Drawer
	Logger    *zerolog.Logger
}

// Engine renders both channels side by side as one row of pixels.
type Engine struct {
	mu     sync.Mutex
	opts   Opts
	log    zerolog.Logger
	drawer Drawer
	img    *image.RGBA
	frames int
}

var _ ws2811.Engine = (*Engine)(nil)

func New(opts Opts) *Engine {
	if opts.NewDrawer == nil {
		opts.NewDrawer = func(n int) Drawer { return screen.New(n) }
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Engine{opts: opts, log: logger.With().Str("component", "sim").Logger()}
}

func (e *Engine) Init(cfg *ws2811.EngineConfig) ws2811.Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := 0
	for i := range cfg.Channels {
		n := cfg.Channels[i].LEDCount
		cfg.Channels[i].LEDs = make([]uint32, n)
		total += n
	}
	if total == 0 {
		e.log.Error().Msg("no LEDs configured")
		for i := range cfg.Channels {
			cfg.Channels[i].LEDs = nil
		}
		return ws2811.StatusLedsMalloc
	}
	e.drawer = e.opts.NewDrawer(total)
	e.img = image.NewRGBA(image.Rect(0, 0, total, 1))
	e.frames = 0
	e.log.Debug().Int("pixels", total).Msg("sim engine ready")
	return ws2811.StatusSuccess
}

func (e *Engine) Render(cfg *ws2811.EngineConfig) ws2811.Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	x := 0
	for _, ch := range cfg.Channels {
		for _, v := range ch.LEDs {
			e.img.SetRGBA(x, 0, model.NewColor(v).Scale(ch.Brightness).ToRGBA())
			x++
		}
	}
	if err := e.drawer.Draw(e.img.Bounds(), e.img, image.Point{}); err != nil {
		e.log.Warn().Err(err).Msg("draw")
		return ws2811.StatusGeneric
	}
	e.frames++
	return ws2811.StatusSuccess
}

func (e *Engine) Wait(*ws2811.EngineConfig) ws2811.Status {
	return ws2811.StatusSuccess
}

func (e *Engine) Fini(cfg *ws2811.EngineConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drawer != nil {
		if err := e.drawer.Halt(); err != nil {
			e.log.Warn().Err(err).Msg("halt")
		}
		e.drawer = nil
	}
	for i := range cfg.Channels {
		cfg.Channels[i].LEDs = nil
	}
	e.log.Debug().Int("frames", e.frames).Msg("sim engine stopped")
}

// Frames returns how many frames were drawn.
func (e *Engine) Frames() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}
