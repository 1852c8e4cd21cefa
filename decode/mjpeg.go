package decode

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

// MJPEGDecoder decodes a Motion-JPEG buffer via the standard library's
// image/jpeg codec (grounded on go4vl/imgsupport/converters.go, which also
// builds on image/jpeg rather than a third-party JPEG library), then
// collapses the result to grey: channel-averaged R+G+B when the decoded
// image carries chroma, or the single channel directly for an already-grey
// JPEG.
type MJPEGDecoder struct {
	width, height int
	out           []byte
}

// NewMJPEGDecoder constructs an MJPEGDecoder for the given frame dimensions.
func NewMJPEGDecoder(width, height int) *MJPEGDecoder {
	return &MJPEGDecoder{width: width, height: height, out: make([]byte, width*height)}
}

// Decode JPEG-decodes src and converts the result to grey samples.
func (d *MJPEGDecoder) Decode(src []byte) ([]byte, error) {
	img, err := jpeg.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: jpeg: %v", ErrDecodeFailed, err)
	}

	b := img.Bounds()
	if b.Dx() != d.width || b.Dy() != d.height {
		return nil, fmt.Errorf("%w: jpeg dimensions %dx%d do not match expected %dx%d",
			ErrDecodeFailed, b.Dx(), b.Dy(), d.width, d.height)
	}

	if grayImg, ok := img.(*image.Gray); ok {
		for y := 0; y < d.height; y++ {
			row := grayImg.Pix[y*grayImg.Stride : y*grayImg.Stride+d.width]
			copy(d.out[y*d.width:(y+1)*d.width], row)
		}
		return d.out, nil
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			// RGBA() returns 16-bit-scaled components; scale back to 8-bit
			// before averaging.
			d.out[i] = byte((r>>8 + g>>8 + bl>>8) / 3)
			i++
		}
	}
	return d.out, nil
}
