package model

import (
	"encoding/binary"
	"fmt"
	"image/color"
)

// Byte offsets of each channel inside a packed LED word. The layout is
// 0xWWRRGGBB, the ws2811_led_t word the rpi_ws281x engine reads. The engine
// reorders channels for the strip itself according to the strip type.
const (
	WhiteOffset uint8 = 0x18
	RedOffset   uint8 = 0x10
	GreenOffset uint8 = 0x08
	BlueOffset  uint8 = 0x00
)

// Color is a packed 32-bit LED color. The fourth byte carries the white
// channel on RGBW strips and is ignored by RGB strips.
type Color uint32

// Black is the zero color.
const Black Color = 0

// NewColor wraps a raw 0xWWRRGGBB value.
func NewColor(c uint32) Color {
	return Color(c)
}

// RGB packs the three color channels with white set to zero.
func RGB(r, g, b uint8) Color {
	return RGBW(r, g, b, 0)
}

// RGBW packs all four channels.
func RGBW(r, g, b, w uint8) Color {
	var c uint32
	c = setcolor(c, w, WhiteOffset)
	c = setcolor(c, r, RedOffset)
	c = setcolor(c, g, GreenOffset)
	c = setcolor(c, b, BlueOffset)
	return Color(c)
}

// FromBytes builds a color from its in-memory byte order, [B, G, R, W].
func FromBytes(b [4]byte) Color {
	return Color(binary.LittleEndian.Uint32(b[:]))
}

func setcolor(c uint32, n uint8, off uint8) uint32 {
	var val uint32 = uint32(n) << off
	var mask uint32 = 0xFF << off
	return (c & (^mask)) | val
}

func getcolor(c uint32, off uint8) uint8 {
	var mask uint32 = 0xFF << off
	return uint8((c & mask) >> off)
}

// Uint32 returns the raw word handed to the engine.
func (c Color) Uint32() uint32 { return uint32(c) }

func (c Color) R() uint8 { return getcolor(uint32(c), RedOffset) }
func (c Color) G() uint8 { return getcolor(uint32(c), GreenOffset) }
func (c Color) B() uint8 { return getcolor(uint32(c), BlueOffset) }
func (c Color) W() uint8 { return getcolor(uint32(c), WhiteOffset) }

func (c Color) WithR(r uint8) Color { return Color(setcolor(uint32(c), r, RedOffset)) }
func (c Color) WithG(g uint8) Color { return Color(setcolor(uint32(c), g, GreenOffset)) }
func (c Color) WithB(b uint8) Color { return Color(setcolor(uint32(c), b, BlueOffset)) }
func (c Color) WithW(w uint8) Color { return Color(setcolor(uint32(c), w, WhiteOffset)) }

// Bytes returns the color in the byte order it occupies in the engine's LED
// array on a little-endian host.
func (c Color) Bytes() [4]byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(c))
	return b
}

// ToRGBA converts to an opaque color.RGBA. The white channel is dropped.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: c.R(), G: c.G(), B: c.B(), A: 0xFF}
}

// Scale multiplies every channel by n/255. It mirrors the per-channel
// brightness the native engine applies, for backends that render in software.
func (c Color) Scale(n uint8) Color {
	if n == 0xFF {
		return c
	}
	s := func(v uint8) uint8 { return uint8((uint16(v)*(uint16(n)+1))>>8) }
	return RGBW(s(c.R()), s(c.G()), s(c.B()), s(c.W()))
}

func (c Color) String() string {
	return fmt.Sprintf("#%08x", uint32(c))
}
