package decode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGreyDecoderCopiesBytes(t *testing.T) {
	d := NewGreyDecoder(4, 1)
	out, err := d.Decode([]byte{10, 20, 30, 40})
	require.NoError(t, err)
	require.Equal(t, []byte{10, 20, 30, 40}, out)
}

func TestGreyDecoderReusesBuffer(t *testing.T) {
	d := NewGreyDecoder(2, 1)
	first, err := d.Decode([]byte{1, 2})
	require.NoError(t, err)
	second, err := d.Decode([]byte{3, 4})
	require.NoError(t, err)

	require.Same(t, &first[0], &second[0])
	require.Equal(t, []byte{3, 4}, second)
}

func TestGreyDecoderRejectsShortBuffer(t *testing.T) {
	d := NewGreyDecoder(4, 1)
	_, err := d.Decode([]byte{1, 2})
	require.ErrorIs(t, err, ErrDecodeFailed)
}
