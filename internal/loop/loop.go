// Package loop drives the animate, compose, render cycle at a fixed period.
package loop

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/ledmatrix/internal/animation"
	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/model"
)

// DefaultPeriod is 15 frames per second.
const DefaultPeriod = time.Second / 15

// Pacing selects how successive renders are kept apart.
type Pacing int

const (
	// PaceSleep sleeps a fixed period after each render. The period must
	// exceed the worst-case DMA transfer time of the strip.
	PaceSleep Pacing = iota
	// PaceWait waits for the previous transfer before each render and sleeps
	// whatever remains of the period.
	PaceWait
)

func (p Pacing) String() string {
	switch p {
	case PaceSleep:
		return "sleep"
	case PaceWait:
		return "wait"
	default:
		return fmt.Sprintf("Pacing(%d)", int(p))
	}
}

// ParsePacing accepts "sleep" and "wait". The empty string means sleep.
func ParsePacing(s string) (Pacing, error) {
	switch s {
	case "", "sleep":
		return PaceSleep, nil
	case "wait":
		return PaceWait, nil
	}
	return 0, fmt.Errorf("unknown pacing %q", s)
}

// State of the loop.
type State int32

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Output is the frame sink the loop renders into. *ws2811.Driver
// implements it.
type Output interface {
	Channel(i int) []model.Color
	Render() error
	Wait() error
}

// Sink observes rendered frames, e.g. a preview server.
type Sink interface {
	Frame(id uint64, leds []model.Color)
	Fault(err error)
}

// Config wires a Loop.
type Config struct {
	Animator animation.Animator
	Layout   layout.Layout
	Output   Output
	Period   time.Duration
	Pacing   Pacing
	Sink     Sink
	Logger   *zerolog.Logger

	// Sleep and Now default to time.Sleep and time.Now.
	Sleep func(time.Duration)
	Now   func() time.Time
}

// Loop is a single-goroutine render loop. All state it touches (grid, dot
// positions, channel buffers) is owned by that goroutine.
type Loop struct {
	cfg    Config
	log    zerolog.Logger
	state  atomic.Int32
	frames atomic.Uint64
}

func New(cfg Config) (*Loop, error) {
	if cfg.Animator == nil {
		return nil, errors.New("loop: no animator")
	}
	if cfg.Output == nil {
		return nil, errors.New("loop: no output")
	}
	g := cfg.Animator.Grid()
	if g.Width() != cfg.Layout.Width || g.Height() != cfg.Layout.Height {
		return nil, fmt.Errorf("loop: grid %dx%d does not match layout %dx%d",
			g.Width(), g.Height(), cfg.Layout.Width, cfg.Layout.Height)
	}
	if cfg.Period <= 0 {
		cfg.Period = DefaultPeriod
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	l := &Loop{cfg: cfg, log: zerolog.Nop()}
	if cfg.Logger != nil {
		l.log = *cfg.Logger
	}
	l.log = l.log.With().Str("component", "loop").Logger()
	return l, nil
}

// State reports Running until Run returns.
func (l *Loop) State() State { return State(l.state.Load()) }

// Frames returns the number of frames rendered so far.
func (l *Loop) Frames() uint64 { return l.frames.Load() }

// Run ticks until ctx is canceled or a step fails. Cancellation is checked
// between iterations; a render or sleep in progress finishes first.
// A canceled context returns nil.
func (l *Loop) Run(ctx context.Context) (err error) {
	defer l.state.Store(int32(Stopped))
	defer func() {
		if err != nil && l.cfg.Sink != nil {
			l.cfg.Sink.Fault(err)
		}
	}()

	l.log.Info().
		Str("animator", l.cfg.Animator.Name()).
		Stringer("pacing", l.cfg.Pacing).
		Dur("period", l.cfg.Period).
		Msg("loop starting")

	for ctx.Err() == nil {
		start := l.cfg.Now()
		if err := l.step(); err != nil {
			l.log.Error().Err(err).Uint64("frame", l.Frames()).Msg("loop stopped on error")
			return err
		}

		delay := l.cfg.Period
		if l.cfg.Pacing == PaceWait {
			delay -= l.cfg.Now().Sub(start)
		}
		if delay > 0 {
			l.cfg.Sleep(delay)
		}
	}

	l.log.Info().Uint64("frames", l.Frames()).Msg("loop stopped")
	return nil
}

func (l *Loop) step() error {
	out := l.cfg.Output
	l.cfg.Animator.Tick()

	ch1, ch2 := out.Channel(0), out.Channel(1)
	if err := l.cfg.Layout.ComposeSplit(l.cfg.Animator.Grid(), ch1, ch2); err != nil {
		return fmt.Errorf("compose: %w", err)
	}

	if l.cfg.Pacing == PaceWait && l.Frames() > 0 {
		if err := out.Wait(); err != nil {
			return fmt.Errorf("wait: %w", err)
		}
	}
	if err := out.Render(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	id := l.frames.Add(1)

	if l.cfg.Sink != nil {
		leds := make([]model.Color, 0, len(ch1)+len(ch2))
		leds = append(append(leds, ch1...), ch2...)
		l.cfg.Sink.Frame(id, leds)
	}
	return nil
}
