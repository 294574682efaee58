// Package fake provides a recording ws2811.Engine for tests and dry runs.
package fake

import (
	"sync"

	"github.com/coreman2200/ledmatrix/internal/ws2811"
)

// Engine records every call and the frames it was asked to render.
type Engine struct {
	mu sync.Mutex

	// InitStatus is returned by Init.
	InitStatus ws2811.Status
	// RenderStatus is returned by Render. With FailRenderAt set it is only
	// returned by that render (1-based).
	RenderStatus ws2811.Status
	FailRenderAt int
	// WaitStatus is returned by Wait.
	WaitStatus ws2811.Status
	// ShortChannel1 makes Init expose one LED fewer than configured.
	ShortChannel1 bool

	calls      []string
	frames     [][2][]uint32
	brightness [][2]uint8
	renders    int
	finis      int
}

var _ ws2811.Engine = (*Engine)(nil)

func (e *Engine) record(call string) {
	e.calls = append(e.calls, call)
}

func (e *Engine) Init(cfg *ws2811.EngineConfig) ws2811.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("init")
	if !e.InitStatus.OK() {
		return e.InitStatus
	}
	for i := range cfg.Channels {
		n := cfg.Channels[i].LEDCount
		if i == 0 && e.ShortChannel1 && n > 0 {
			n--
		}
		cfg.Channels[i].LEDs = make([]uint32, n)
	}
	return ws2811.StatusSuccess
}

func (e *Engine) Render(cfg *ws2811.EngineConfig) ws2811.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("render")
	e.renders++
	if e.FailRenderAt > 0 {
		if e.renders == e.FailRenderAt {
			if e.RenderStatus.OK() {
				return ws2811.StatusGeneric
			}
			return e.RenderStatus
		}
	} else if !e.RenderStatus.OK() {
		return e.RenderStatus
	}
	var frame [2][]uint32
	for i, ch := range cfg.Channels {
		frame[i] = append([]uint32(nil), ch.LEDs...)
	}
	e.frames = append(e.frames, frame)
	e.brightness = append(e.brightness, [2]uint8{cfg.Channels[0].Brightness, cfg.Channels[1].Brightness})
	return ws2811.StatusSuccess
}

func (e *Engine) Wait(cfg *ws2811.EngineConfig) ws2811.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("wait")
	return e.WaitStatus
}

func (e *Engine) Fini(cfg *ws2811.EngineConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("fini")
	e.finis++
}

// Calls returns the engine operations in the order they happened.
func (e *Engine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// Frames returns copies of every successfully rendered frame.
func (e *Engine) Frames() [][2][]uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][2][]uint32(nil), e.frames...)
}

// Brightness returns the channel brightness seen by each successful render.
func (e *Engine) Brightness() [][2]uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][2]uint8(nil), e.brightness...)
}

// FiniCount returns how many times Fini ran.
func (e *Engine) FiniCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finis
}
