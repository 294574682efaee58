package ws2811_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ledmatrix/internal/driver/fake"
	"github.com/coreman2200/ledmatrix/internal/ws2811"
	"github.com/coreman2200/ledmatrix/model"
)

func openSingle(t *testing.T, e *fake.Engine, count int) *ws2811.Driver {
	t.Helper()
	d, err := ws2811.Open(e, ws2811.SingleChannel(count, 18))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestOpenRejectsInvalidPins(t *testing.T) {
	var cases = []struct {
		name    string
		opts    ws2811.Options
		channel int
		pin     int
	}{
		{"ch1 pin 5", ws2811.SingleChannel(64, 5), 1, 5},
		{"ch1 takes ch2 pin", ws2811.SingleChannel(64, 13), 1, 13},
		{"ch2 takes ch1 pin", ws2811.DualChannel(64, 18, 8, 18), 2, 18},
		{"ch2 pin 7", ws2811.DualChannel(64, 12, 8, 7), 2, 7},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := &fake.Engine{}
			_, err := ws2811.Open(e, c.opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ws2811.ErrInvalidGPIOPin))

			var cfgErr *ws2811.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, c.channel, cfgErr.Channel)
			assert.Equal(t, c.pin, cfgErr.Pin)
			assert.Empty(t, e.Calls(), "engine must not be touched")
		})
	}
}

func TestInvalidPinMessageNamesAllowedSet(t *testing.T) {
	_, err := ws2811.Open(&fake.Engine{}, ws2811.SingleChannel(64, 5))
	require.Error(t, err)
	assert.Equal(t, "invalid GPIO pin 5 for channel 1, must be one of (0, 12, 18, 40, 52)", err.Error())

	var cfgErr *ws2811.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []int{0, 12, 18, 40, 52}, cfgErr.Allowed)
}

func TestOpenRejectsNegativeCount(t *testing.T) {
	e := &fake.Engine{}
	_, err := ws2811.Open(e, ws2811.SingleChannel(-1, 18))
	assert.ErrorIs(t, err, ws2811.ErrInvalidLEDCount)
	assert.Empty(t, e.Calls())
}

func TestOpenAllowsEveryListedPin(t *testing.T) {
	for i, pin := range ws2811.ValidChannel1GPIOs {
		o := ws2811.DualChannel(4, pin, 4, ws2811.ValidChannel2GPIOs[i])
		d, err := ws2811.Open(&fake.Engine{}, o)
		require.NoError(t, err, "pin %d", pin)
		require.NoError(t, d.Close())
	}
}

func TestDualChannelWithInactiveSecond(t *testing.T) {
	e := &fake.Engine{}
	d, err := ws2811.Open(e, ws2811.DualChannel(64, 18, 0, 0))
	require.NoError(t, err)
	defer d.Close()

	assert.Len(t, d.Channel(0), 64)
	assert.Empty(t, d.Channel(1))
	assert.Equal(t, 0, d.LEDCount(1))
	assert.Equal(t, []string{"init"}, e.Calls())
}

func TestInitFailureReportsStatus(t *testing.T) {
	e := &fake.Engine{InitStatus: ws2811.StatusMailboxOpen}
	_, err := ws2811.Open(e, ws2811.SingleChannel(64, 18))
	require.Error(t, err)
	assert.ErrorIs(t, err, ws2811.ErrDriverInit)

	var initErr *ws2811.InitError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, ws2811.StatusMailboxOpen, initErr.Status)
	assert.Contains(t, err.Error(), "-28112")
	assert.Equal(t, []string{"init"}, e.Calls(), "failed init must not be finalized")

	// The DMA claim was released.
	d, err := ws2811.Open(&fake.Engine{}, ws2811.SingleChannel(64, 18))
	require.NoError(t, err)
	d.Close()
}

func TestPartialInitIsFinalized(t *testing.T) {
	e := &fake.Engine{ShortChannel1: true}
	_, err := ws2811.Open(e, ws2811.SingleChannel(64, 18))
	require.Error(t, err)
	assert.Equal(t, []string{"init", "fini"}, e.Calls())
	assert.Equal(t, 1, e.FiniCount())
}

func TestRenderCopiesPackedWords(t *testing.T) {
	e := &fake.Engine{}
	d, err := ws2811.Open(e, ws2811.DualChannel(3, 18, 2, 19))
	require.NoError(t, err)
	defer d.Close()

	copy(d.Channel(0), []model.Color{model.RGB(0x20, 0x10, 0), model.RGBW(1, 2, 3, 4), model.Black})
	copy(d.Channel(1), []model.Color{model.NewColor(0xDEADBEEF), model.RGB(0, 0, 0x20)})
	require.NoError(t, d.Render())

	frames := e.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, []uint32{0x00201000, 0x04010203, 0}, frames[0][0])
	assert.Equal(t, []uint32{0xDEADBEEF, 0x00000020}, frames[0][1])
}

func TestRenderFailureIsSurfaced(t *testing.T) {
	e := &fake.Engine{RenderStatus: ws2811.StatusGeneric}
	d := openSingle(t, e, 8)

	err := d.Render()
	require.Error(t, err)
	assert.ErrorIs(t, err, ws2811.ErrRender)

	var te *ws2811.TransferError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "render", te.Op)
	assert.Equal(t, ws2811.StatusGeneric, te.Status)
	assert.Equal(t, []string{"init", "render"}, e.Calls(), "render must not be retried")
}

func TestWaitFailureIsSurfaced(t *testing.T) {
	e := &fake.Engine{WaitStatus: ws2811.StatusGeneric}
	d := openSingle(t, e, 8)

	err := d.Wait()
	assert.ErrorIs(t, err, ws2811.ErrWait)
	assert.NotErrorIs(t, err, ws2811.ErrRender)
}

func TestCloseIsIdempotent(t *testing.T) {
	e := &fake.Engine{}
	d, err := ws2811.Open(e, ws2811.SingleChannel(8, 18))
	require.NoError(t, err)

	assert.NoError(t, d.Close())
	assert.NoError(t, d.Close())
	assert.Equal(t, 1, e.FiniCount())

	assert.ErrorIs(t, d.Render(), ws2811.ErrClosed)
	assert.ErrorIs(t, d.Wait(), ws2811.ErrClosed)
	assert.Equal(t, []string{"init", "fini"}, e.Calls())
}

func TestOneDriverPerDMAChannel(t *testing.T) {
	first := openSingle(t, &fake.Engine{}, 8)

	e := &fake.Engine{}
	_, err := ws2811.Open(e, ws2811.SingleChannel(8, 18))
	assert.ErrorIs(t, err, ws2811.ErrDMAInUse)
	assert.Empty(t, e.Calls())

	other := ws2811.SingleChannel(8, 18)
	other.DMAChannel = 5
	d, err := ws2811.Open(e, other)
	require.NoError(t, err)
	d.Close()

	first.Close()
	d, err = ws2811.Open(e, ws2811.SingleChannel(8, 18))
	require.NoError(t, err)
	d.Close()
}

func TestSetBrightnessReachesEngine(t *testing.T) {
	e := &fake.Engine{}
	d := openSingle(t, e, 2)

	assert.Equal(t, ws2811.DefaultBrightness, d.Brightness(0))
	d.SetBrightness(0, 32)
	require.NoError(t, d.Render())
	assert.Equal(t, [][2]uint8{{32, 255}}, e.Brightness())
}

func TestClearBlanksBuffers(t *testing.T) {
	d := openSingle(t, &fake.Engine{}, 3)
	d.Channel(0)[1] = model.RGB(1, 1, 1)
	d.Clear()
	assert.Equal(t, []model.Color{0, 0, 0}, d.Channel(0))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "WS2811_ERR_HW_DETECT(-28110)", ws2811.StatusHWDetect.String())
	assert.Equal(t, "status(42)", ws2811.Status(42).String())
	assert.True(t, ws2811.StatusSuccess.OK())
}

func TestParseStripType(t *testing.T) {
	st, ok := ws2811.ParseStripType("GRBW")
	require.True(t, ok)
	assert.Equal(t, ws2811.SK6812WStrip, st)
	assert.True(t, st.HasWhite())

	st, ok = ws2811.ParseStripType("GRB")
	require.True(t, ok)
	assert.False(t, st.HasWhite())

	_, ok = ws2811.ParseStripType("XYZ")
	assert.False(t, ok)
}
