package decode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"meteorcam/v4l2"
)

func TestNewDispatchesOnFormat(t *testing.T) {
	g, err := New(v4l2.PixFmtGrey, 4, 2)
	require.NoError(t, err)
	require.IsType(t, &GreyDecoder{}, g)

	y, err := New(v4l2.PixFmtYUYV, 4, 2)
	require.NoError(t, err)
	require.IsType(t, &YUYVDecoder{}, y)

	m, err := New(v4l2.PixFmtMJPEG, 4, 2)
	require.NoError(t, err)
	require.IsType(t, &MJPEGDecoder{}, m)
}

func TestNewRejectsUnsupportedFormat(t *testing.T) {
	_, err := New(0xdeadbeef, 4, 2)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
