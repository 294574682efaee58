package animation

import (
	"fmt"

	"github.com/coreman2200/ledmatrix/model"
)

const DotsName = "dots"

var basePalette = []model.Color{
	0x000000, // black
	0x201000, // amber
	0x202000, // yellow
	0x002000, // green
	0x002020, // cyan
	0x000020, // blue
	0x100010, // magenta
	0x200010, // pink
}

// DefaultPalette returns w colors cycling through the eight base dot colors.
func DefaultPalette(w int) []model.Color {
	p := make([]model.Color, w)
	for i := range p {
		p[i] = basePalette[i%len(basePalette)]
	}
	return p
}

// Dots scrolls the grid upwards and feeds the bottom row with one colored
// dot per column, each walking right one column per tick.
type Dots struct {
	grid    *model.Grid
	pos     []int
	palette []model.Color
}

var _ Animator = (*Dots)(nil)

// NewDots starts dot i at column i. The palette must hold one color per column.
func NewDots(w, h int, palette []model.Color) (*Dots, error) {
	g, err := model.NewGrid(w, h)
	if err != nil {
		return nil, err
	}
	if len(palette) != w {
		return nil, fmt.Errorf("palette has %d colors, need %d", len(palette), w)
	}
	pos := make([]int, w)
	for i := range pos {
		pos[i] = i
	}
	return &Dots{
		grid:    g,
		pos:     pos,
		palette: append([]model.Color(nil), palette...),
	}, nil
}

func (d *Dots) Name() string           { return DotsName }
func (d *Dots) Grid() *model.Grid      { return d.grid }
func (d *Dots) Palette() []model.Color { return d.palette }

// Positions returns a copy of the dot columns.
func (d *Dots) Positions() []int {
	return append([]int(nil), d.pos...)
}

// Tick raises the grid and then draws the bottom row.
func (d *Dots) Tick() {
	d.Raise()
	d.Bottom()
}

// Raise copies every row onto the row above it. The top row is dropped,
// the bottom row keeps its content until Bottom overwrites it.
func (d *Dots) Raise() {
	w, h := d.grid.Width(), d.grid.Height()
	for y := 0; y < h-1; y++ {
		for x := 0; x < w; x++ {
			d.grid.Set(x, y, d.grid.At(x, y+1))
		}
	}
}

// Bottom advances each dot one column, wrapping at the right edge, and
// paints it on the bottom row. Dots are painted in index order, so on a
// collision the higher index wins.
func (d *Dots) Bottom() {
	w, h := d.grid.Width(), d.grid.Height()
	for i := range d.pos {
		d.pos[i]++
		if d.pos[i] > w-1 {
			d.pos[i] = 0
		}
		d.grid.Set(d.pos[i], h-1, d.palette[i])
	}
}
