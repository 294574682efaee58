// Package layout linearizes a logical grid into LED channel buffers.
package layout

import (
	"errors"
	"fmt"

	"github.com/coreman2200/ledmatrix/model"
)

var ErrSizeMismatch = errors.New("composition size mismatch")

// SizeMismatchError reports a grid or buffer that does not match the layout.
// It means the LED counts and grid dimensions were wired inconsistently.
type SizeMismatchError struct {
	Want, Got int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("%s: layout has %d LEDs, got %d", ErrSizeMismatch, e.Want, e.Got)
}

func (e *SizeMismatchError) Unwrap() error { return ErrSizeMismatch }

// Layout maps grid cells to linear LED indices, row by row from the top.
type Layout struct {
	Width, Height int
	// Serpentine wires odd rows right to left, as zig-zag panels are.
	Serpentine bool
}

// Index maps x,y -> linear LED index (0..N-1)
func (l Layout) Index(x, y int) int {
	xx := x
	if l.Serpentine && y%2 == 1 {
		xx = l.Width - 1 - x
	}
	return y*l.Width + xx
}

func (l Layout) Count() int {
	return l.Width * l.Height
}

func (l Layout) check(g *model.Grid, n int) error {
	if g.Width() != l.Width || g.Height() != l.Height {
		return &SizeMismatchError{Want: l.Count(), Got: g.Len()}
	}
	if n != l.Count() {
		return &SizeMismatchError{Want: l.Count(), Got: n}
	}
	return nil
}

// Compose writes every grid cell into ch.
func (l Layout) Compose(g *model.Grid, ch []model.Color) error {
	if err := l.check(g, len(ch)); err != nil {
		return err
	}
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			ch[l.Index(x, y)] = g.At(x, y)
		}
	}
	return nil
}

// ComposeSplit spreads the grid over two chained channels: linear indices
// below len(ch1) land in ch1, the rest in ch2.
func (l Layout) ComposeSplit(g *model.Grid, ch1, ch2 []model.Color) error {
	if err := l.check(g, len(ch1)+len(ch2)); err != nil {
		return err
	}
	n1 := len(ch1)
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			i := l.Index(x, y)
			if i < n1 {
				ch1[i] = g.At(x, y)
			} else {
				ch2[i-n1] = g.At(x, y)
			}
		}
	}
	return nil
}

// Decompose reads ch back into g. It inverts Compose.
func (l Layout) Decompose(ch []model.Color, g *model.Grid) error {
	if err := l.check(g, len(ch)); err != nil {
		return err
	}
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			g.Set(x, y, ch[l.Index(x, y)])
		}
	}
	return nil
}
