//go:build linux && cgo && rpi

package ws2811

/*
#cgo LDFLAGS: -lws2811 -lm
#include <stdlib.h>
#include <stdint.h>
#include <ws2811/ws2811.h>

// Field widths differ between libws2811 releases; let C do the conversions.
static void lm_setup(ws2811_t *ws, uint32_t freq, int dma) {
	ws->freq = freq;
	ws->dmanum = dma;
}

static void lm_channel(ws2811_t *ws, int ch, int gpio, int invert, int count, int brightness, int strip) {
	ws->channel[ch].gpionum = gpio;
	ws->channel[ch].invert = invert;
	ws->channel[ch].count = count;
	ws->channel[ch].brightness = brightness;
	ws->channel[ch].strip_type = strip;
}

static void lm_brightness(ws2811_t *ws, int ch, int brightness) {
	ws->channel[ch].brightness = brightness;
}

static ws2811_led_t *lm_leds(ws2811_t *ws, int ch) {
	return ws->channel[ch].leds;
}

static int lm_init(ws2811_t *ws)   { return (int)ws2811_init(ws); }
static int lm_render(ws2811_t *ws) { return (int)ws2811_render(ws); }
static int lm_wait(ws2811_t *ws)   { return (int)ws2811_wait(ws); }
*/
import "C"
import (
	"unsafe"
)

type native struct {
	dev *C.ws2811_t
}

// NewNative returns the libws2811 engine. The process needs access to
// /dev/mem (usually root).
func NewNative() (Engine, error) {
	return &native{}, nil
}

func boolInt(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

func (n *native) Init(cfg *EngineConfig) Status {
	n.dev = (*C.ws2811_t)(C.calloc(1, C.size_t(unsafe.Sizeof(*n.dev))))
	if n.dev == nil {
		return StatusDeviceMalloc
	}
	C.lm_setup(n.dev, C.uint32_t(cfg.Frequency), C.int(cfg.DMAChannel))
	for i, ch := range cfg.Channels {
		C.lm_channel(n.dev, C.int(i), C.int(ch.GPIOPin), boolInt(ch.Invert),
			C.int(ch.LEDCount), C.int(ch.Brightness), C.int(ch.StripType))
	}

	if st := Status(C.lm_init(n.dev)); !st.OK() {
		C.free(unsafe.Pointer(n.dev))
		n.dev = nil
		return st
	}

	for i := range cfg.Channels {
		ch := &cfg.Channels[i]
		leds := C.lm_leds(n.dev, C.int(i))
		if leds == nil || ch.LEDCount == 0 {
			ch.LEDs = []uint32{}
			continue
		}
		ch.LEDs = unsafe.Slice((*uint32)(unsafe.Pointer(leds)), ch.LEDCount)
	}
	return StatusSuccess
}

func (n *native) Render(cfg *EngineConfig) Status {
	if n.dev == nil {
		return StatusGeneric
	}
	for i, ch := range cfg.Channels {
		C.lm_brightness(n.dev, C.int(i), C.int(ch.Brightness))
	}
	return Status(C.lm_render(n.dev))
}

func (n *native) Wait(cfg *EngineConfig) Status {
	if n.dev == nil {
		return StatusGeneric
	}
	return Status(C.lm_wait(n.dev))
}

func (n *native) Fini(cfg *EngineConfig) {
	if n.dev == nil {
		return
	}
	C.ws2811_fini(n.dev)
	C.free(unsafe.Pointer(n.dev))
	n.dev = nil
	for i := range cfg.Channels {
		cfg.Channels[i].LEDs = nil
	}
}
