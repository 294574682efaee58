package animation

import (
	"fmt"

	"github.com/coreman2200/ledmatrix/model"
)

// Kind names a bring-up pattern used to check wiring and color order.
type Kind string

const (
	IndexSweep  Kind = "index_sweep"
	RGBChannels Kind = "rgb_channels"
	RowSweep    Kind = "row_sweep"
)

const patternLevel = 0x20

// Pattern draws a test pattern. Patterns loop forever.
type Pattern struct {
	kind Kind
	grid *model.Grid
	step int
}

var _ Animator = (*Pattern)(nil)

func NewPattern(kind Kind, w, h int) (*Pattern, error) {
	switch kind {
	case IndexSweep, RGBChannels, RowSweep:
	default:
		return nil, fmt.Errorf("unknown pattern kind %q", kind)
	}
	g, err := model.NewGrid(w, h)
	if err != nil {
		return nil, err
	}
	return &Pattern{kind: kind, grid: g}, nil
}

func (p *Pattern) Name() string      { return string(p.kind) }
func (p *Pattern) Grid() *model.Grid { return p.grid }

// Tick draws the current step and advances.
func (p *Pattern) Tick() {
	g := p.grid
	w, h := g.Width(), g.Height()
	g.Fill(model.Black)

	switch p.kind {
	case IndexSweep:
		idx := p.step % (w * h)
		g.Set(idx%w, idx/w, model.RGB(patternLevel, patternLevel, patternLevel))
	case RGBChannels:
		var c model.Color
		switch p.step % 3 {
		case 0:
			c = model.RGB(patternLevel, 0, 0)
		case 1:
			c = model.RGB(0, patternLevel, 0)
		case 2:
			c = model.RGB(0, 0, patternLevel)
		}
		g.Fill(c)
	case RowSweep:
		y := p.step % h
		for x := 0; x < w; x++ {
			g.Set(x, y, model.RGB(0, patternLevel, patternLevel)) // cyan
		}
	}
	p.step++
}
