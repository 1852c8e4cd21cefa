package v4l2

import "syscall"

// BufType identifies the kind of buffer stream (v4l2_buf_type).
type BufType = uint32

const (
	BufTypeVideoCapture BufType = 1
	BufTypeVideoOutput  BufType = 2
)

// MemoryType identifies how buffers are backed (v4l2_memory).
type MemoryType = uint32

const (
	MemoryTypeMMAP    MemoryType = 1
	MemoryTypeUserPtr MemoryType = 2
)

// FieldType (v4l2_field); FieldAny lets the driver choose.
const FieldAny uint32 = 0

// FourCC is a four-character-code pixel format identifier.
type FourCC = uint32

// fourcc packs four ASCII bytes into the little-endian FourCC the kernel uses.
func fourcc(a, b, c, d byte) FourCC {
	return FourCC(a) | FourCC(b)<<8 | FourCC(c)<<16 | FourCC(d)<<24
}

// Recognized pixel formats. Values match the kernel's V4L2_PIX_FMT_* constants.
var (
	PixFmtGrey  = fourcc('G', 'R', 'E', 'Y')
	PixFmtYUYV  = fourcc('Y', 'U', 'Y', 'V')
	PixFmtMJPEG = fourcc('M', 'J', 'P', 'G')
)

// PixelFormatNames maps a FourCC to a human-readable label for logging.
var PixelFormatNames = map[FourCC]string{
	PixFmtGrey:  "GREY (8-bit greyscale)",
	PixFmtYUYV:  "YUYV (YCbCr 4:2:2)",
	PixFmtMJPEG: "MJPEG (Motion-JPEG)",
}

// Capability mirrors struct v4l2_capability.
type Capability struct {
	Driver       [16]byte
	Card         [32]byte
	BusInfo      [32]byte
	Version      uint32
	Capabilities uint32
	DeviceCaps   uint32
	Reserved     [3]uint32
}

const (
	capVideoCapture = 0x00000001
	capStreaming    = 0x04000000
	capDeviceCaps   = 0x80000000
)

// IsVideoCaptureSupported reports whether this device can serve as a capture source.
func (c Capability) IsVideoCaptureSupported() bool {
	return c.effective()&capVideoCapture != 0
}

// IsStreamingSupported reports whether this device supports streaming I/O.
func (c Capability) IsStreamingSupported() bool {
	return c.effective()&capStreaming != 0
}

func (c Capability) effective() uint32 {
	if c.Capabilities&capDeviceCaps != 0 {
		return c.DeviceCaps
	}
	return c.Capabilities
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// DriverName returns the null-terminated driver identifier as a Go string.
func (c Capability) DriverName() string { return cString(c.Driver[:]) }

// CardName returns the null-terminated card (device) name as a Go string.
func (c Capability) CardName() string { return cString(c.Card[:]) }

// BusInfoName returns the null-terminated bus-info string.
func (c Capability) BusInfoName() string { return cString(c.BusInfo[:]) }

// PixFormat mirrors struct v4l2_pix_format (the portion of the v4l2_format union this package uses).
type PixFormat struct {
	Width        uint32
	Height       uint32
	PixelFormat  FourCC
	Field        uint32
	BytesPerLine uint32
	SizeImage    uint32
	Colorspace   uint32
	Priv         uint32
	Flags        uint32
	YcbcrEnc     uint32
	Quantization uint32
	XferFunc     uint32
}

// format mirrors struct v4l2_format for BufTypeVideoCapture: a type tag
// followed by a union whose first member we treat as v4l2_pix_format.
// The union in the kernel struct is sized to 200 bytes; PixFormat above is
// well under that, so the remaining bytes are padding we never touch.
type rawFormat struct {
	Type uint32
	_    [4]byte // align union to the 8-byte boundary the kernel struct uses
	pix  [200]byte
}

// RequestBuffers mirrors struct v4l2_requestbuffers.
type RequestBuffers struct {
	Count    uint32
	Type     uint32
	Memory   uint32
	Reserved [2]uint32
}

// Timecode mirrors struct v4l2_timecode (embedded in v4l2_buffer).
type Timecode struct {
	Type     uint32
	Flags    uint32
	Frames   uint8
	Seconds  uint8
	Minutes  uint8
	Hours    uint8
	UserBits [4]uint8
}

// Buffer flags (v4l2_buffer.flags), subset we inspect.
const (
	BufFlagMapped uint32 = 0x00000001
	BufFlagError  uint32 = 0x00000040
)

// Buffer mirrors struct v4l2_buffer for the MMAP memory type.
type Buffer struct {
	Index     uint32
	Type      uint32
	BytesUsed uint32
	Flags     uint32
	Field     uint32
	Timestamp syscall.Timeval
	Timecode  Timecode
	Sequence  uint32
	Memory    uint32
	Offset    uint32
	_         uint32 // union padding (userptr/planes/fd share this slot)
	Length    uint32
	Reserved2 uint32
	Reserved  uint32
}

// Rect mirrors struct v4l2_rect, used for crop geometry.
type Rect struct {
	Left   int32
	Top    int32
	Width  uint32
	Height uint32
}

// CropCapability mirrors struct v4l2_cropcap.
type CropCapability struct {
	Type        uint32
	Bounds      Rect
	DefaultRect Rect
	PixelAspect struct{ Numerator, Denominator uint32 }
}

// Fract mirrors struct v4l2_fract.
type Fract struct {
	Numerator   uint32
	Denominator uint32
}

// CaptureParam mirrors struct v4l2_captureparam.
type CaptureParam struct {
	Capability   uint32
	CaptureMode  uint32
	TimePerFrame Fract
	ExtendedMode uint32
	ReadBuffers  uint32
	Reserved     [4]uint32
}

// streamParam mirrors struct v4l2_streamparm for BufTypeVideoCapture: a
// type tag followed by the union slot we treat as v4l2_captureparam.
type streamParam struct {
	Type uint32
	_    [4]byte
	parm [200]byte
}
