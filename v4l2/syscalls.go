package v4l2

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Sentinel errors the capture package maps onto its fatal-at-startup
// error kinds (DeviceBusy, UnsupportedFormat, MapFailed, StreamStartFailed).
var (
	ErrDeviceBusy       = errors.New("v4l2: device busy")
	ErrUnsupportedFmt   = errors.New("v4l2: unsupported pixel format")
	ErrMapFailed        = errors.New("v4l2: buffer mmap failed")
	ErrStreamStartFail  = errors.New("v4l2: stream start failed")
	ErrUnsupportedDevce = errors.New("v4l2: device does not support video capture streaming")
)

// OpenDevice opens the character device at path in non-blocking read-write mode.
func OpenDevice(path string) (uintptr, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		if errors.Is(err, unix.EBUSY) {
			return 0, fmt.Errorf("%w: %s", ErrDeviceBusy, path)
		}
		return 0, fmt.Errorf("v4l2: open %s: %w", path, err)
	}
	return uintptr(fd), nil
}

// CloseDevice closes a device file descriptor opened via OpenDevice.
func CloseDevice(fd uintptr) error {
	return unix.Close(int(fd))
}

// GetCapability issues VIDIOC_QUERYCAP.
func GetCapability(fd uintptr) (Capability, error) {
	var cap Capability
	if err := send(fd, vidiocQueryCap, unsafe.Pointer(&cap)); err != nil {
		return Capability{}, fmt.Errorf("v4l2: query capability: %w", err)
	}
	return cap, nil
}

// GetPixFormat issues VIDIOC_G_FMT for BufTypeVideoCapture.
func GetPixFormat(fd uintptr) (PixFormat, error) {
	raw := rawFormat{Type: BufTypeVideoCapture}
	if err := send(fd, vidiocGetFormat, unsafe.Pointer(&raw)); err != nil {
		return PixFormat{}, fmt.Errorf("v4l2: get format: %w", err)
	}
	return *(*PixFormat)(unsafe.Pointer(&raw.pix[0])), nil
}

// SetPixFormat issues VIDIOC_S_FMT for BufTypeVideoCapture. The driver may
// adjust width/height/stride; the returned PixFormat reflects what was
// actually negotiated.
func SetPixFormat(fd uintptr, want PixFormat) (PixFormat, error) {
	raw := rawFormat{Type: BufTypeVideoCapture}
	pix := (*PixFormat)(unsafe.Pointer(&raw.pix[0]))
	*pix = want
	if pix.Field == 0 {
		pix.Field = FieldAny
	}
	if err := send(fd, vidiocSetFormat, unsafe.Pointer(&raw)); err != nil {
		return PixFormat{}, fmt.Errorf("%w: %v", ErrStreamStartFail, err)
	}
	return *pix, nil
}

// GetCropCapability issues VIDIOC_CROPCAP. Devices without cropping support
// return an error the caller may ignore (cropping is optional).
func GetCropCapability(fd uintptr, bufType BufType) (CropCapability, error) {
	cc := CropCapability{Type: bufType}
	if err := send(fd, vidiocCropCap, unsafe.Pointer(&cc)); err != nil {
		return CropCapability{}, fmt.Errorf("v4l2: crop capability: %w", err)
	}
	return cc, nil
}

// SetCropRect issues VIDIOC_S_CROP.
func SetCropRect(fd uintptr, r Rect) error {
	if err := send(fd, vidiocSetCrop, unsafe.Pointer(&r)); err != nil {
		return fmt.Errorf("v4l2: set crop: %w", err)
	}
	return nil
}

// InitBuffers issues VIDIOC_REQBUFS, requesting count kernel-mapped buffers
// for BufTypeVideoCapture/MemoryTypeMMAP.
func InitBuffers(fd uintptr, count uint32) (RequestBuffers, error) {
	req := RequestBuffers{Count: count, Type: BufTypeVideoCapture, Memory: MemoryTypeMMAP}
	if err := send(fd, vidiocReqBufs, unsafe.Pointer(&req)); err != nil {
		return RequestBuffers{}, fmt.Errorf("v4l2: request buffers: %w", err)
	}
	if req.Count < 2 {
		return RequestBuffers{}, fmt.Errorf("v4l2: insufficient buffers granted: %d", req.Count)
	}
	return req, nil
}

// QueryBuffer issues VIDIOC_QUERYBUF for the buffer at index, returning its
// offset/length so it can be mapped.
func QueryBuffer(fd uintptr, index uint32) (Buffer, error) {
	buf := Buffer{Type: BufTypeVideoCapture, Memory: MemoryTypeMMAP, Index: index}
	if err := send(fd, vidiocQueryBuf, unsafe.Pointer(&buf)); err != nil {
		return Buffer{}, fmt.Errorf("v4l2: query buffer %d: %w", index, err)
	}
	return buf, nil
}

// MapMemoryBuffer mmaps the kernel buffer described by offset/length into
// this process's address space.
func MapMemoryBuffer(fd uintptr, offset int64, length int) ([]byte, error) {
	data, err := unix.Mmap(int(fd), offset, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMapFailed, err)
	}
	return data, nil
}

// UnmapMemoryBuffer undoes MapMemoryBuffer.
func UnmapMemoryBuffer(data []byte) error {
	if data == nil {
		return nil
	}
	return unix.Munmap(data)
}

// QueueBuffer issues VIDIOC_QBUF, returning the buffer to the driver's incoming queue.
func QueueBuffer(fd uintptr, index uint32) error {
	buf := Buffer{Type: BufTypeVideoCapture, Memory: MemoryTypeMMAP, Index: index}
	if err := send(fd, vidiocQBuf, unsafe.Pointer(&buf)); err != nil {
		return fmt.Errorf("v4l2: queue buffer %d: %w", index, err)
	}
	return nil
}

// DequeueBuffer issues VIDIOC_DQBUF, blocking (in non-blocking fd mode,
// returning EAGAIN) until a filled buffer is available.
func DequeueBuffer(fd uintptr) (Buffer, error) {
	buf := Buffer{Type: BufTypeVideoCapture, Memory: MemoryTypeMMAP}
	if err := send(fd, vidiocDQBuf, unsafe.Pointer(&buf)); err != nil {
		return Buffer{}, err
	}
	return buf, nil
}

// StreamOn issues VIDIOC_STREAMON for BufTypeVideoCapture.
func StreamOn(fd uintptr) error {
	bufType := uint32(BufTypeVideoCapture)
	if err := send(fd, vidiocStreamOn, unsafe.Pointer(&bufType)); err != nil {
		return fmt.Errorf("%w: %v", ErrStreamStartFail, err)
	}
	return nil
}

// StreamOff issues VIDIOC_STREAMOFF for BufTypeVideoCapture. Idempotent in
// practice: calling it on an already-stopped stream is a kernel no-op error
// the caller may ignore.
func StreamOff(fd uintptr) error {
	bufType := uint32(BufTypeVideoCapture)
	if err := send(fd, vidiocStreamOff, unsafe.Pointer(&bufType)); err != nil {
		return fmt.Errorf("v4l2: stream off: %w", err)
	}
	return nil
}

// GetStreamCaptureParam issues VIDIOC_G_PARM for BufTypeVideoCapture.
func GetStreamCaptureParam(fd uintptr) (CaptureParam, error) {
	raw := streamParam{Type: BufTypeVideoCapture}
	if err := send(fd, vidiocGetParm, unsafe.Pointer(&raw)); err != nil {
		return CaptureParam{}, fmt.Errorf("v4l2: get stream param: %w", err)
	}
	return *(*CaptureParam)(unsafe.Pointer(&raw.parm[0])), nil
}

// SetStreamCaptureParam issues VIDIOC_S_PARM for BufTypeVideoCapture,
// requesting a capture frame interval (param.TimePerFrame). The driver may
// adjust the value; the returned CaptureParam reflects what it accepted.
func SetStreamCaptureParam(fd uintptr, param CaptureParam) (CaptureParam, error) {
	raw := streamParam{Type: BufTypeVideoCapture}
	dst := (*CaptureParam)(unsafe.Pointer(&raw.parm[0]))
	*dst = param
	if err := send(fd, vidiocSetParm, unsafe.Pointer(&raw)); err != nil {
		return CaptureParam{}, fmt.Errorf("v4l2: set stream param: %w", err)
	}
	return *dst, nil
}

// WaitForRead blocks until fd is readable. A positive timeout bounds the
// wait and returns an ErrTimeout-wrapping error if it elapses; timeout <= 0
// waits indefinitely. Uses select(2).
func WaitForRead(fd uintptr, timeout time.Duration) error {
	var fds unix.FdSet
	fds.Set(int(fd))
	for {
		var tvp *unix.Timeval
		if timeout > 0 {
			tv := unix.NsecToTimeval(timeout.Nanoseconds())
			tvp = &tv
		}
		n, err := unix.Select(int(fd)+1, &fds, nil, nil, tvp)
		switch {
		case n < 0 && errors.Is(err, unix.EINTR):
			continue
		case n < 0:
			return fmt.Errorf("v4l2: select: %w", err)
		case n == 0:
			return fmt.Errorf("v4l2: wait for read: %w", ErrTimeout)
		default:
			return nil
		}
	}
}

// ErrTimeout is returned by WaitForRead when a bounded wait elapses without
// the file descriptor becoming readable.
var ErrTimeout = errors.New("v4l2: read wait timed out")
