package capture

import (
	"testing"

	"github.com/stretchr/testify/require"

	"meteorcam/v4l2"
)

func TestOptionsApplyToConfig(t *testing.T) {
	var c config
	pf := v4l2.PixFormat{Width: 640, Height: 480, PixelFormat: v4l2.PixFmtGrey}

	opts := []Option{
		WithPixFormat(pf),
		WithBufferCount(6),
		WithFPS(15),
		WithCropDefault(),
	}
	for _, o := range opts {
		o(&c)
	}

	require.Equal(t, pf, c.pixFormat)
	require.Equal(t, uint32(6), c.bufferCount)
	require.Equal(t, uint32(15), c.fps)
	require.True(t, c.cropDefault)
}

func TestConfigZeroValueLeavesDefaultsUnset(t *testing.T) {
	var c config
	require.False(t, c.cropDefault)
	require.Zero(t, c.fps)
	require.Zero(t, c.bufferCount)
}
