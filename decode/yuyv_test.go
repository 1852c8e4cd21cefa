package decode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestYUYVDecoderExtractsLuma(t *testing.T) {
	d := NewYUYVDecoder(4, 1)
	// Two quads: (Y0 U Y1 V) = (10, 128, 20, 128), (30, 128, 40, 128)
	src := []byte{10, 128, 20, 128, 30, 128, 40, 128}
	out, err := d.Decode(src)
	require.NoError(t, err)
	require.Equal(t, []byte{10, 20, 30, 40}, out)
}

func TestYUYVDecoderRejectsShortBuffer(t *testing.T) {
	d := NewYUYVDecoder(4, 1)
	_, err := d.Decode([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrDecodeFailed)
}
