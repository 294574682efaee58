//go:build !(linux && cgo && rpi)

package ws2811_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/ledmatrix/internal/ws2811"
)

func TestNewNativeUnsupported(t *testing.T) {
	e, err := ws2811.NewNative()
	assert.Nil(t, e)
	assert.ErrorIs(t, err, ws2811.ErrUnsupported)
}
