// Package daemon wires a configuration into a running matrix: engine, driver,
// animation, render loop and the optional preview server.
package daemon

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/ledmatrix/internal/animation"
	"github.com/coreman2200/ledmatrix/internal/config"
	"github.com/coreman2200/ledmatrix/internal/driver/sim"
	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/loop"
	"github.com/coreman2200/ledmatrix/internal/preview"
	"github.com/coreman2200/ledmatrix/internal/ws2811"
	"github.com/coreman2200/ledmatrix/spi"
)

// EngineFactory builds the engine named by cfg.Driver.
type EngineFactory func(cfg *config.Config, logger *zerolog.Logger) (ws2811.Engine, error)

// DefaultEngine maps ws2811, spi and sim to their engines.
func DefaultEngine(cfg *config.Config, logger *zerolog.Logger) (ws2811.Engine, error) {
	switch cfg.Driver {
	case "ws2811":
		return ws2811.NewNative()
	case "spi":
		var freq physic.Frequency
		if cfg.SPI.SpeedHz > 0 {
			freq = physic.Frequency(cfg.SPI.SpeedHz) * physic.Hertz
		}
		return spi.NewEngine(spi.Opts{Dev: cfg.SPI.Dev, Freq: freq, Logger: logger}), nil
	case "sim":
		return sim.New(sim.Opts{Logger: logger}), nil
	}
	return nil, errors.Errorf("unknown driver %q", cfg.Driver)
}

// Options configures NewDaemon.
type Options struct {
	Logger    *zerolog.Logger
	NewEngine EngineFactory
	Patterns  *animation.Registry
	// Sleep and Now are handed to the loop. Nil uses the real clock.
	Sleep func(time.Duration)
	Now   func() time.Time
}

type Daemon struct {
	cfg  *config.Config
	opts Options
	log  zerolog.Logger
}

func NewDaemon(cfg *config.Config, opts Options) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	if _, err := opts.registry().New(cfg.Pattern, cfg.Width, cfg.Height); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	if opts.NewEngine == nil {
		opts.NewEngine = DefaultEngine
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Daemon{cfg: cfg, opts: opts, log: logger}, nil
}

func (o Options) registry() *animation.Registry {
	if o.Patterns != nil {
		return o.Patterns
	}
	return animation.DefaultRegistry()
}

// Run opens the driver and renders until ctx is canceled or a frame fails.
// The driver is closed on every return path.
func (d *Daemon) Run(ctx context.Context) error {
	cfg := d.cfg

	engine, err := d.opts.NewEngine(cfg, &d.log)
	if err != nil {
		return errors.Wrap(err, "failed to create engine")
	}
	drvOpts, err := cfg.DriverOptions()
	if err != nil {
		return errors.Wrap(err, "invalid driver options")
	}
	drvOpts.Logger = &d.log

	drv, err := ws2811.Open(engine, drvOpts)
	if err != nil {
		return errors.Wrap(err, "failed to open driver")
	}
	defer drv.Close()

	anim, err := d.opts.registry().New(cfg.Pattern, cfg.Width, cfg.Height)
	if err != nil {
		return errors.Wrap(err, "failed to create animation")
	}
	pacing, err := loop.ParsePacing(cfg.Pacing)
	if err != nil {
		return err
	}

	lay := layout.Layout{Width: cfg.Width, Height: cfg.Height, Serpentine: cfg.Serpentine}
	var prev *preview.Server
	var sink loop.Sink
	if cfg.PreviewAddr != "" {
		prev = preview.NewServer(lay, preview.Options{FPS: cfg.FPS, Driver: cfg.Driver, Logger: &d.log})
		sink = prev
	}

	l, err := loop.New(loop.Config{
		Animator: anim,
		Layout:   lay,
		Output:   drv,
		Period:   cfg.Period(),
		Pacing:   pacing,
		Sink:     sink,
		Logger:   &d.log,
		Sleep:    d.opts.Sleep,
		Now:      d.opts.Now,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create render loop")
	}

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		if err := l.Run(ctx); err != nil {
			return errors.Wrap(err, "render loop failed")
		}
		d.log.Info().Uint64("frames", l.Frames()).Msg("render loop stopped")
		return nil
	})

	if prev != nil {
		srv := &http.Server{
			Addr:         cfg.PreviewAddr,
			Handler:      prev.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		errg.Go(func() error {
			d.log.Info().Str("addr", cfg.PreviewAddr).Msg("preview server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return errors.Wrap(err, "preview server failed")
			}
			return nil
		})
		errg.Go(func() error {
			<-ctx.Done()
			d.log.Debug().Msg("closing preview server")
			prev.Close()
			return srv.Close()
		})
	}

	return errg.Wait()
}
