package decode

import "fmt"

// GreyDecoder passes packed 8-bit grey samples through unchanged.
type GreyDecoder struct {
	width, height int
	out           []byte
}

// NewGreyDecoder constructs a GreyDecoder for the given frame dimensions.
func NewGreyDecoder(width, height int) *GreyDecoder {
	return &GreyDecoder{width: width, height: height, out: make([]byte, width*height)}
}

// Decode copies src directly into the decoder's reusable output buffer.
func (d *GreyDecoder) Decode(src []byte) ([]byte, error) {
	n := d.width * d.height
	if len(src) < n {
		return nil, fmt.Errorf("%w: grey buffer too short: got %d want %d", ErrDecodeFailed, len(src), n)
	}
	copy(d.out, src[:n])
	return d.out, nil
}
