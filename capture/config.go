package capture

import "meteorcam/v4l2"

// config holds device configuration parameters, set up via functional
// Options before Open negotiates them with the driver. Grounded on
// go4vl/device.config (_examples/vladimirvivien-go4vl/device/device_config.go).
type config struct {
	pixFormat   v4l2.PixFormat
	bufferCount uint32
	fps         uint32
	cropDefault bool
}

// Option configures a Source at Open time.
type Option func(*config)

// WithPixFormat requests a specific width/height/pixel format. If omitted,
// Open uses whatever format the driver currently reports.
func WithPixFormat(pixFmt v4l2.PixFormat) Option {
	return func(c *config) { c.pixFormat = pixFmt }
}

// WithBufferCount sets the number of kernel buffers to request. The driver
// may round the value up; a granted count below 2 is rejected by
// InitBuffers when Start requests the buffers.
func WithBufferCount(n uint32) Option {
	return func(c *config) { c.bufferCount = n }
}

// WithFPS requests a capture frame rate in frames per second.
func WithFPS(fps uint32) Option {
	return func(c *config) { c.fps = fps }
}

// WithCropDefault resets the device's crop rectangle to its default bounds
// at Open time, when the device reports crop support.
func WithCropDefault() Option {
	return func(c *config) { c.cropDefault = true }
}

const defaultBufferCount = 4
