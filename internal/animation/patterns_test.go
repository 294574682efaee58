package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ledmatrix/model"
)

func lit(g *model.Grid) int {
	n := 0
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.At(x, y) != model.Black {
				n++
			}
		}
	}
	return n
}

func TestIndexSweepLightsOneLED(t *testing.T) {
	p, err := NewPattern(IndexSweep, 3, 2)
	require.NoError(t, err)

	for step := 0; step < 8; step++ {
		p.Tick()
		idx := step % 6
		assert.Equal(t, 1, lit(p.Grid()))
		assert.NotEqual(t, model.Black, p.Grid().At(idx%3, idx/3))
	}
}

func TestRGBChannelsCycle(t *testing.T) {
	p, err := NewPattern(RGBChannels, 2, 2)
	require.NoError(t, err)

	p.Tick()
	assert.NotZero(t, p.Grid().At(1, 1).R())
	p.Tick()
	assert.NotZero(t, p.Grid().At(1, 1).G())
	p.Tick()
	assert.NotZero(t, p.Grid().At(1, 1).B())
	assert.Zero(t, p.Grid().At(1, 1).R())
}

func TestRowSweep(t *testing.T) {
	p, err := NewPattern(RowSweep, 4, 3)
	require.NoError(t, err)
	p.Tick()
	p.Tick()
	assert.Equal(t, 4, lit(p.Grid()))
	assert.NotEqual(t, model.Black, p.Grid().At(0, 1))
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"dots", "index_sweep", "rgb_channels", "row_sweep"}, r.List())

	a, err := r.New("dots", 8, 8)
	require.NoError(t, err)
	assert.Equal(t, DotsName, a.Name())

	a, err = r.New("row_sweep", 8, 8)
	require.NoError(t, err)
	assert.Equal(t, "row_sweep", a.Name())

	_, err = r.New("rainbow", 8, 8)
	assert.Error(t, err)
}
