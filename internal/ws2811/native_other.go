//go:build !(linux && cgo && rpi)

package ws2811

// NewNative reports ErrUnsupported. Build with -tags rpi on a Raspberry Pi
// with libws2811 installed to get the real engine.
func NewNative() (Engine, error) {
	return nil, ErrUnsupported
}
