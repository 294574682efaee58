package model

import "fmt"

// Grid is a 2-D pixel buffer indexed by (x, y), x across and y down.
// Row 0 is the top row.
type Grid struct {
	w, h  int
	cells []Color
}

// NewGrid allocates a w×h grid of Black.
func NewGrid(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions %dx%d", w, h)
	}
	return &Grid{w: w, h: h, cells: make([]Color, w*h)}, nil
}

func (g *Grid) Width() int  { return g.w }
func (g *Grid) Height() int { return g.h }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

func (g *Grid) At(x, y int) Color {
	return g.cells[y*g.w+x]
}

func (g *Grid) Set(x, y int, c Color) {
	g.cells[y*g.w+x] = c
}

// Fill sets every cell to c.
func (g *Grid) Fill(c Color) {
	for i := range g.cells {
		g.cells[i] = c
	}
}

// Row returns row y as a slice aliasing the grid.
func (g *Grid) Row(y int) []Color {
	return g.cells[y*g.w : (y+1)*g.w]
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{w: g.w, h: g.h, cells: make([]Color, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}
