// Package config loads the matrix configuration from YAML or TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/ledmatrix/internal/loop"
	"github.com/coreman2200/ledmatrix/internal/ws2811"
)

// Drivers lists the engine backends the command knows.
var Drivers = []string{"ws2811", "spi", "sim"}

type Channel struct {
	Count      int    `yaml:"count" toml:"count"`
	GPIO       int    `yaml:"gpio" toml:"gpio"`
	Brightness int    `yaml:"brightness" toml:"brightness"`
	Invert     bool   `yaml:"invert" toml:"invert"`
	StripType  string `yaml:"strip_type" toml:"strip_type"` // e.g. GRB, GRBW
}

type SPI struct {
	Dev     string `yaml:"dev" toml:"dev"`           // e.g. SPI0.0, empty picks the first port
	SpeedHz int    `yaml:"speed_hz" toml:"speed_hz"` // e.g. 2500000
}

type Config struct {
	Driver      string    `yaml:"driver" toml:"driver"` // "ws2811" | "spi" | "sim"
	FrequencyHz int       `yaml:"frequency_hz" toml:"frequency_hz"`
	DMA         int       `yaml:"dma" toml:"dma"`
	Width       int       `yaml:"width" toml:"width"`
	Height      int       `yaml:"height" toml:"height"`
	FPS         int       `yaml:"fps" toml:"fps"`
	Pacing      string    `yaml:"pacing" toml:"pacing"` // "sleep" | "wait"
	Serpentine  bool      `yaml:"serpentine" toml:"serpentine"`
	Pattern     string    `yaml:"pattern" toml:"pattern"`
	Channels    []Channel `yaml:"channels" toml:"channels"`
	SPI         SPI       `yaml:"spi,omitempty" toml:"spi"`
	PreviewAddr string    `yaml:"preview_addr,omitempty" toml:"preview_addr"`
}

// Default is an 8x8 matrix on GPIO 18 running the dots animation at 15 fps.
func Default() *Config {
	return &Config{
		Driver:      "ws2811",
		FrequencyHz: int(ws2811.DefaultFrequency),
		DMA:         ws2811.DefaultDMAChannel,
		Width:       8,
		Height:      8,
		FPS:         15,
		Pacing:      loop.PaceSleep.String(),
		Pattern:     "dots",
		Channels: []Channel{
			{Count: 64, GPIO: 18, Brightness: 255, StripType: "GRB"},
		},
	}
}

// fillDefaults replaces zero values with Default's. A zero dma or brightness
// therefore selects the default rather than DMA 0 or a dark channel.
func (c *Config) fillDefaults() {
	d := Default()
	if c.Driver == "" {
		c.Driver = d.Driver
	}
	if c.FrequencyHz == 0 {
		c.FrequencyHz = d.FrequencyHz
	}
	if c.DMA == 0 {
		c.DMA = d.DMA
	}
	if c.Width == 0 && c.Height == 0 {
		c.Width, c.Height = d.Width, d.Height
	}
	if c.FPS == 0 {
		c.FPS = d.FPS
	}
	if c.Pacing == "" {
		c.Pacing = d.Pacing
	}
	if c.Pattern == "" {
		c.Pattern = d.Pattern
	}
	if len(c.Channels) == 0 {
		c.Channels = d.Channels
	}
	for i := range c.Channels {
		if c.Channels[i].Brightness == 0 {
			c.Channels[i].Brightness = int(ws2811.DefaultBrightness)
		}
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads path. Missing keys take their default value.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := &Config{}
	if isTOML(path) {
		err = toml.Unmarshal(b, c)
	} else {
		err = yaml.Unmarshal(b, c)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	c.fillDefaults()
	return c, nil
}

func Save(path string, c *Config) error {
	var (
		b   []byte
		err error
	)
	if isTOML(path) {
		b, err = toml.Marshal(*c)
	} else {
		b, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate checks that the matrix, the channels and the loop settings agree.
func (c *Config) Validate() error {
	if !slices.Contains(Drivers, c.Driver) {
		return fmt.Errorf("unknown driver %q (known: %v)", c.Driver, Drivers)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid matrix size %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", c.FPS)
	}
	if _, err := loop.ParsePacing(c.Pacing); err != nil {
		return err
	}
	if len(c.Channels) == 0 || len(c.Channels) > 2 {
		return fmt.Errorf("want 1 or 2 channels, got %d", len(c.Channels))
	}
	total := 0
	for i, ch := range c.Channels {
		if ch.Brightness < 0 || ch.Brightness > 255 {
			return fmt.Errorf("channel %d: brightness %d out of range 0..255", i+1, ch.Brightness)
		}
		if ch.StripType != "" {
			if _, ok := ws2811.ParseStripType(ch.StripType); !ok {
				return fmt.Errorf("channel %d: unknown strip type %q", i+1, ch.StripType)
			}
		}
		total += ch.Count
	}
	if total != c.Width*c.Height {
		return fmt.Errorf("channels drive %d LEDs, matrix is %dx%d", total, c.Width, c.Height)
	}
	return nil
}

// Period is the frame period for FPS.
func (c *Config) Period() time.Duration {
	if c.FPS <= 0 {
		return loop.DefaultPeriod
	}
	return time.Second / time.Duration(c.FPS)
}

// DriverOptions converts the channel settings. Pin and count checks are left
// to ws2811.Open.
func (c *Config) DriverOptions() (ws2811.Options, error) {
	o := ws2811.DefaultOptions()
	if c.FrequencyHz > 0 {
		o.Frequency = uint32(c.FrequencyHz)
	}
	o.DMAChannel = c.DMA
	if len(c.Channels) > len(o.Channels) {
		return o, fmt.Errorf("want 1 or 2 channels, got %d", len(c.Channels))
	}
	for i, ch := range c.Channels {
		st := ws2811.WS2812Strip
		if ch.StripType != "" {
			var ok bool
			if st, ok = ws2811.ParseStripType(ch.StripType); !ok {
				return o, fmt.Errorf("channel %d: unknown strip type %q", i+1, ch.StripType)
			}
		}
		o.Channels[i] = ws2811.ChannelConfig{
			LEDCount:   ch.Count,
			GPIOPin:    ch.GPIO,
			Brightness: uint8(ch.Brightness),
			Invert:     ch.Invert,
			StripType:  st,
		}
	}
	return o, nil
}
