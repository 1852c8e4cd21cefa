package decode

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeGreyJPEG(t *testing.T, width, height int, fill byte) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = fill
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}))
	return buf.Bytes()
}

func TestMJPEGDecoderGreyInput(t *testing.T) {
	src := encodeGreyJPEG(t, 8, 4, 0x80)
	d := NewMJPEGDecoder(8, 4)

	out, err := d.Decode(src)
	require.NoError(t, err)
	require.Len(t, out, 32)
	for _, b := range out {
		require.InDelta(t, 0x80, b, 4, "JPEG quantization may shift grey values slightly")
	}
}

func TestMJPEGDecoderRejectsDimensionMismatch(t *testing.T) {
	src := encodeGreyJPEG(t, 8, 4, 0x10)
	d := NewMJPEGDecoder(4, 4)

	_, err := d.Decode(src)
	require.ErrorIs(t, err, ErrDecodeFailed)
}

func TestMJPEGDecoderRejectsGarbage(t *testing.T) {
	d := NewMJPEGDecoder(4, 4)
	_, err := d.Decode([]byte{0x00, 0x01, 0x02})
	require.ErrorIs(t, err, ErrDecodeFailed)
}
