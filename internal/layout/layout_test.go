package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ledmatrix/model"
)

func patterned(t *testing.T, w, h int) *model.Grid {
	t.Helper()
	g, err := model.NewGrid(w, h)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, model.NewColor(uint32(y<<8|x)))
		}
	}
	return g
}

func TestIndexIsRowMajor(t *testing.T) {
	l := Layout{Width: 8, Height: 8}
	assert.Equal(t, 0, l.Index(0, 0))
	assert.Equal(t, 7, l.Index(7, 0))
	assert.Equal(t, 8, l.Index(0, 1))
	assert.Equal(t, 63, l.Index(7, 7))
}

func TestSerpentineFlipsOddRows(t *testing.T) {
	l := Layout{Width: 4, Height: 3, Serpentine: true}
	assert.Equal(t, 0, l.Index(0, 0))
	assert.Equal(t, 7, l.Index(0, 1))
	assert.Equal(t, 4, l.Index(3, 1))
	assert.Equal(t, 8, l.Index(0, 2))
}

func TestComposeRoundTrip(t *testing.T) {
	for _, l := range []Layout{
		{Width: 8, Height: 8},
		{Width: 5, Height: 3},
		{Width: 4, Height: 6, Serpentine: true},
	} {
		g := patterned(t, l.Width, l.Height)
		buf := make([]model.Color, l.Count())
		require.NoError(t, l.Compose(g, buf))

		for y := 0; y < l.Height; y++ {
			for x := 0; x < l.Width; x++ {
				assert.Equal(t, g.At(x, y), buf[l.Index(x, y)])
			}
		}

		back, err := model.NewGrid(l.Width, l.Height)
		require.NoError(t, err)
		require.NoError(t, l.Decompose(buf, back))
		assert.Equal(t, g, back)
	}
}

func TestComposeSizeMismatch(t *testing.T) {
	l := Layout{Width: 8, Height: 8}
	g := patterned(t, 8, 8)

	err := l.Compose(g, make([]model.Color, 63))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSizeMismatch))

	var sm *SizeMismatchError
	require.True(t, errors.As(err, &sm))
	assert.Equal(t, 64, sm.Want)
	assert.Equal(t, 63, sm.Got)

	err = l.Compose(patterned(t, 4, 4), make([]model.Color, 64))
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestComposeSplitAcrossChannels(t *testing.T) {
	l := Layout{Width: 4, Height: 4}
	g := patterned(t, 4, 4)
	ch1 := make([]model.Color, 10)
	ch2 := make([]model.Color, 6)
	require.NoError(t, l.ComposeSplit(g, ch1, ch2))

	assert.Equal(t, g.At(0, 0), ch1[0])
	assert.Equal(t, g.At(1, 2), ch1[9])
	assert.Equal(t, g.At(2, 2), ch2[0])
	assert.Equal(t, g.At(3, 3), ch2[5])

	assert.ErrorIs(t, l.ComposeSplit(g, ch1, ch2[:5]), ErrSizeMismatch)
}

func TestComposeSplitWithEmptySecondChannel(t *testing.T) {
	l := Layout{Width: 3, Height: 2}
	g := patterned(t, 3, 2)
	ch1 := make([]model.Color, 6)
	require.NoError(t, l.ComposeSplit(g, ch1, nil))

	want := make([]model.Color, 6)
	require.NoError(t, l.Compose(g, want))
	assert.Equal(t, want, ch1)
}
