package decode

import "fmt"

// YUYVDecoder extracts the luma (Y) samples from a YUYV 4:2:2 buffer,
// discarding chroma. Each 4-byte quad (Y0 U Y1 V) contributes two grey
// samples, taken from offsets 0 and 2.
type YUYVDecoder struct {
	width, height int
	out           []byte
}

// NewYUYVDecoder constructs a YUYVDecoder for the given frame dimensions.
func NewYUYVDecoder(width, height int) *YUYVDecoder {
	return &YUYVDecoder{width: width, height: height, out: make([]byte, width*height)}
}

// Decode extracts luma samples from src into the decoder's reusable output buffer.
func (d *YUYVDecoder) Decode(src []byte) ([]byte, error) {
	n := d.width * d.height
	want := n * 2
	if len(src) < want {
		return nil, fmt.Errorf("%w: yuyv buffer too short: got %d want %d", ErrDecodeFailed, len(src), want)
	}
	for i := 0; i < n; i += 2 {
		quad := src[i*2 : i*2+4]
		d.out[i] = quad[0]
		d.out[i+1] = quad[2]
	}
	return d.out, nil
}
