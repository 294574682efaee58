package ws2811

import "slices"

// StripType is the native strip color layout. Each byte holds the shift of a
// channel within the wire word, as WS2811_STRIP_* in ws2811.h.
type StripType int

const (
	StripRGBW StripType = 0x18100800
	StripRBGW StripType = 0x18100008
	StripGRBW StripType = 0x18081000
	StripGBRW StripType = 0x18080010
	StripBRGW StripType = 0x18001008
	StripBGRW StripType = 0x18000810

	StripRGB StripType = 0x00100800
	StripRBG StripType = 0x00100008
	StripGRB StripType = 0x00081000
	StripGBR StripType = 0x00080010
	StripBRG StripType = 0x00001008
	StripBGR StripType = 0x00000810

	WS2812Strip  = StripGRB
	SK6812Strip  = StripGRB
	SK6812WStrip = StripGRBW
)

var stripNames = map[string]StripType{
	"RGBW": StripRGBW, "RBGW": StripRBGW, "GRBW": StripGRBW,
	"GBRW": StripGBRW, "BRGW": StripBRGW, "BGRW": StripBGRW,
	"RGB": StripRGB, "RBG": StripRBG, "GRB": StripGRB,
	"GBR": StripGBR, "BRG": StripBRG, "BGR": StripBGR,
}

// ParseStripType maps a channel order such as "GRB" or "GRBW" to its strip
// type. The empty string maps to zero, the engine default.
func ParseStripType(s string) (StripType, bool) {
	if s == "" {
		return 0, true
	}
	t, ok := stripNames[s]
	return t, ok
}

// HasWhite reports whether the strip carries a white channel.
func (t StripType) HasWhite() bool { return t&0x7F000000 != 0 }

var (
	// ValidChannel1GPIOs are the pins with a PWM0 alternate function.
	// 0 marks an unused channel.
	ValidChannel1GPIOs = []int{0, 12, 18, 40, 52}
	// ValidChannel2GPIOs are the pins with a PWM1 alternate function.
	ValidChannel2GPIOs = []int{0, 13, 19, 41, 53}
)

// ChannelConfig describes one physical output.
type ChannelConfig struct {
	LEDCount   int
	GPIOPin    int
	Brightness uint8
	Invert     bool
	StripType  StripType
}

// Active reports whether the channel drives any LEDs.
func (c ChannelConfig) Active() bool { return c.LEDCount > 0 }

// Validate checks c for the given channel role (1 or 2).
func (c ChannelConfig) Validate(channel int) error {
	allowed := ValidChannel1GPIOs
	if channel == 2 {
		allowed = ValidChannel2GPIOs
	}
	if !slices.Contains(allowed, c.GPIOPin) {
		return &ConfigError{
			Channel:  channel,
			Pin:      c.GPIOPin,
			Allowed:  slices.Clone(allowed),
			sentinel: ErrInvalidGPIOPin,
		}
	}
	if c.LEDCount < 0 {
		return &ConfigError{Channel: channel, Count: c.LEDCount, sentinel: ErrInvalidLEDCount}
	}
	return nil
}
