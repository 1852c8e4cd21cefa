// Package decode converts captured buffers in one of the supported V4L2
// pixel formats into a Frame-ready grey byte slice.
//
// Grounded on go4vl/imgsupport/converters.go (_examples/vladimirvivien-go4vl/imgsupport/converters.go),
// which reaches for the standard library's image/jpeg rather than a
// third-party JPEG codec; this package does the same for MJPEGDecoder (see
// DESIGN.md for the stdlib justification).
package decode

import (
	"errors"
	"fmt"

	"meteorcam/v4l2"
)

// ErrUnsupportedFormat is returned by New for a FourCC none of the
// supplied decoders handle.
var ErrUnsupportedFormat = errors.New("decode: unsupported pixel format")

// ErrDecodeFailed wraps a lower-level decode failure (e.g. a malformed
// Motion-JPEG frame).
var ErrDecodeFailed = errors.New("decode: decode failed")

// PixelDecoder converts one captured buffer into a grey sample slice of
// exactly width*height bytes. Implementations pre-allocate their output
// buffer once and reuse it; the returned slice is only valid until the
// next call to Decode.
type PixelDecoder interface {
	// Decode converts src (the raw bytes of one BorrowedBuffer) into grey
	// samples and returns the decoder's reusable output buffer.
	Decode(src []byte) ([]byte, error)
}

// New constructs the PixelDecoder appropriate for pixFmt, sized for
// width*height output samples.
func New(pixFmt v4l2.FourCC, width, height int) (PixelDecoder, error) {
	switch pixFmt {
	case v4l2.PixFmtGrey:
		return NewGreyDecoder(width, height), nil
	case v4l2.PixFmtYUYV:
		return NewYUYVDecoder(width, height), nil
	case v4l2.PixFmtMJPEG:
		return NewMJPEGDecoder(width, height), nil
	default:
		return nil, fmt.Errorf("%w: 0x%08x", ErrUnsupportedFormat, pixFmt)
	}
}
