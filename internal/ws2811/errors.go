package ws2811

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidGPIOPin  = errors.New("invalid GPIO pin")
	ErrInvalidLEDCount = errors.New("invalid LED count")
	ErrDMAInUse        = errors.New("DMA channel already in use")
	ErrDriverInit      = errors.New("error initializing rpi_ws281x")
	ErrRender          = errors.New("DMA error while rendering")
	ErrWait            = errors.New("DMA error while waiting for previous DMA operation to complete")
	ErrClosed          = errors.New("driver closed")
	ErrUnsupported     = errors.New("ws2811 engine not supported on this platform")
)

// ConfigError reports a channel configuration rejected before the engine was
// touched. The caller may fix the configuration and open again.
type ConfigError struct {
	Channel  int // 1 or 2
	Pin      int
	Count    int
	Allowed  []int
	sentinel error
}

func (e *ConfigError) Error() string {
	if e.sentinel == ErrInvalidLEDCount {
		return fmt.Sprintf("invalid LED count %d for channel %d", e.Count, e.Channel)
	}
	allowed := make([]string, len(e.Allowed))
	for i, p := range e.Allowed {
		allowed[i] = strconv.Itoa(p)
	}
	return fmt.Sprintf("invalid GPIO pin %d for channel %d, must be one of (%s)",
		e.Pin, e.Channel, strings.Join(allowed, ", "))
}

func (e *ConfigError) Unwrap() error { return e.sentinel }

// InitError carries the status of a failed ws2811_init.
type InitError struct {
	Status Status
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDriverInit, e.Status)
}

func (e *InitError) Unwrap() error { return ErrDriverInit }

// TransferError carries the status of a failed render or wait.
type TransferError struct {
	Op     string // "render" or "wait"
	Status Status
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s: %s", e.Unwrap(), e.Status)
}

func (e *TransferError) Unwrap() error {
	if e.Op == "wait" {
		return ErrWait
	}
	return ErrRender
}
