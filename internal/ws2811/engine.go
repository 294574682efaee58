package ws2811

// EngineChannel mirrors ws2811_channel_t.
type EngineChannel struct {
	GPIOPin    int
	Invert     bool
	LEDCount   int
	Brightness uint8
	StripType  StripType
	// LEDs is the engine-owned LED array, populated by Init and released by
	// Fini. Its length is LEDCount.
	LEDs []uint32
}

// EngineConfig mirrors ws2811_t: the record every engine operation works on.
type EngineConfig struct {
	Frequency  uint32
	DMAChannel int
	Channels   [2]EngineChannel
}

// Engine is the LED rendering engine behind a Driver. Implementations wrap
// libws2811 (NewNative), an SPI bus or a simulation.
type Engine interface {
	// Init allocates buffers and claims hardware. On failure the engine has
	// already released anything it acquired.
	Init(cfg *EngineConfig) Status
	// Render sends the LED arrays to hardware.
	Render(cfg *EngineConfig) Status
	// Wait blocks until the previous transfer completes.
	Wait(cfg *EngineConfig) Status
	// Fini tears everything down. Only valid after a successful Init.
	Fini(cfg *EngineConfig)
}
