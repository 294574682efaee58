package ws2811

import "strconv"

// Status is a return code from the native engine. Zero is success; every
// other value is a failure whose meaning belongs to the engine.
type Status int

const (
	StatusSuccess Status = 0
	StatusGeneric Status = -1 // ws2811_render and ws2811_wait report DMA errors this way

	StatusHWDetect     Status = -(28110 + 0)
	StatusDeviceMalloc Status = -(28110 + 1)
	StatusMailboxOpen  Status = -(28110 + 2)
	StatusMailboxAlloc Status = -(28110 + 3)
	StatusMailboxLock  Status = -(28110 + 4)
	StatusMapMem       Status = -(28110 + 5)
	StatusLedsMalloc   Status = -(28110 + 6)
	StatusMapRegisters Status = -(28110 + 7)
	StatusGPIOInit     Status = -(28110 + 8)
	StatusSetupPWM     Status = -(28110 + 9)
)

var statusNames = map[Status]string{
	StatusSuccess:      "WS2811_SUCCESS",
	StatusGeneric:      "WS2811_ERROR_GENERIC",
	StatusHWDetect:     "WS2811_ERR_HW_DETECT",
	StatusDeviceMalloc: "WS2811_ERR_DEVICE_MALLOC",
	StatusMailboxOpen:  "WS2811_ERR_MAILBOX_OPEN",
	StatusMailboxAlloc: "WS2811_ERR_MAILBOX_ALLOC",
	StatusMailboxLock:  "WS2811_ERR_MAILBOX_LOCK",
	StatusMapMem:       "WS2811_ERR_MAP_MEM",
	StatusLedsMalloc:   "WS2811_ERR_LEDS_MALLOC",
	StatusMapRegisters: "WS2811_ERR_MAP_REGISTERS",
	StatusGPIOInit:     "WS2811_ERR_GPIO_INIT",
	StatusSetupPWM:     "WS2811_ERR_SETUP_PWM",
}

// OK reports whether s is StatusSuccess.
func (s Status) OK() bool { return s == StatusSuccess }

// String returns the native constant name followed by the raw code, or the
// raw code alone for codes this package does not know.
func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n + "(" + strconv.Itoa(int(s)) + ")"
	}
	return "status(" + strconv.Itoa(int(s)) + ")"
}
