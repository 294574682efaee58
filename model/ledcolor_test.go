package model_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/coreman2200/ledmatrix/model"
)

var TestRGBWIsExpectedColor = []struct {
	R      uint8
	G      uint8
	B      uint8
	W      uint8
	Expect uint32
}{
	{0x11, 0x22, 0x33, 0xFF, 0xFF112233},
	{0x2A, 0x44, 0x34, 0x00, 0x002A4434},
	{0x3B, 0x88, 0x35, 0xAB, 0xAB3B8835},
	{0x4C, 0xAA, 0x36, 0x22, 0x224CAA36},
	{0x20, 0x10, 0x00, 0x00, 0x00201000},
}

var TestColorChangesToExpectedColor = []struct {
	Start  uint32
	Given  uint32
	Expect uint32
}{
	{0xFF112233, 0x00112233, 0xFF224466},
	{0x00448800, 0xFF0000FF, 0xFF4488FF},
	{0x87650000, 0x00004321, 0x87654321},
	{0x37650105, 0x30004321, 0x67654426},
}

func TestColorsRGBW(t *testing.T) {
	for k, v := range TestRGBWIsExpectedColor {
		t.Run("Given RGBW"+strconv.Itoa(k), func(t *testing.T) {
			col := RGBW(v.R, v.G, v.B, v.W)
			assert.Equal(t, v.Expect, col.Uint32(), "should be same val")

			raw := NewColor(v.Expect)
			assert.Equal(t, v.R, raw.R())
			assert.Equal(t, v.G, raw.G())
			assert.Equal(t, v.B, raw.B())
			assert.Equal(t, v.W, raw.W())
		})
	}
}

func TestColorsChanges(t *testing.T) {
	for k, v := range TestColorChangesToExpectedColor {
		t.Run("Given change"+strconv.Itoa(k), func(t *testing.T) {
			col1 := NewColor(v.Start)
			col2 := NewColor(v.Given)

			col1 = col1.WithW(col1.W() + col2.W())
			col1 = col1.WithR(col1.R() + col2.R())
			col1 = col1.WithG(col1.G() + col2.G())
			col1 = col1.WithB(col1.B() + col2.B())

			assert.Equal(t, v.Expect, col1.Uint32(), "should be same val")
		})
	}
}

func TestColorBytesAreLittleEndianWord(t *testing.T) {
	c := RGBW(0x11, 0x22, 0x33, 0x44)
	assert.Equal(t, [4]byte{0x33, 0x22, 0x11, 0x44}, c.Bytes())
	assert.Equal(t, c, FromBytes(c.Bytes()))
}

func TestRGBLeavesWhiteClear(t *testing.T) {
	c := RGB(0xFF, 0x80, 0x01)
	assert.Equal(t, uint32(0x00FF8001), c.Uint32())
	assert.Equal(t, uint8(0xFF), c.ToRGBA().A)
}

func TestColorScale(t *testing.T) {
	c := RGBW(0xFF, 0x80, 0x00, 0x40)
	assert.Equal(t, c, c.Scale(0xFF))
	assert.Equal(t, Black, c.Scale(0))

	half := c.Scale(0x7F)
	assert.Equal(t, uint8(0x7F), half.R())
	assert.Equal(t, uint8(0x40), half.G())
	assert.Equal(t, uint8(0x20), half.W())
}
