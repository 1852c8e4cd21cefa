// Package capture wraps the raw v4l2 ioctl layer into the CaptureSource
// contract: open a device, negotiate a pixel format, request and map kernel
// buffers, stream, and hand back filled buffers one at a time.
//
// Grounded on go4vl/device.Device (_examples/vladimirvivien-go4vl/device/device.go),
// restructured so NextBuffer is a synchronous, blocking call rather than
// go4vl's internal goroutine+channel stream loop: the capture thread in this
// system owns the acquisition loop directly, so Source does not spawn its
// own goroutine.
package capture

import (
	"errors"
	"fmt"
	"syscall"

	"meteorcam/v4l2"
)

// ErrNotStreaming is returned by NextBuffer when called before Start.
var ErrNotStreaming = errors.New("capture: device is not streaming")

// Source is a single opened V4L2 capture device with its kernel buffers
// mapped into this process. The zero value is not usable; construct with
// Open.
type Source struct {
	path string
	fd   uintptr

	cfg    config
	cap    v4l2.Capability
	format v4l2.PixFormat

	buffers   [][]byte
	bufCount  uint32
	streaming bool
}

// Open opens the device at path, queries its capability, negotiates a pixel
// format and crop rectangle, and leaves it ready for Start. The device must
// support streaming I/O and video capture; anything else is a fatal
// (non-recoverable) error.
func Open(path string, opts ...Option) (*Source, error) {
	fd, err := v4l2.OpenDevice(path)
	if err != nil {
		return nil, err
	}

	s := &Source{path: path, fd: fd, cfg: config{bufferCount: defaultBufferCount}}
	for _, o := range opts {
		o(&s.cfg)
	}

	cap, err := v4l2.GetCapability(fd)
	if err != nil {
		_ = v4l2.CloseDevice(fd)
		return nil, err
	}
	if !cap.IsStreamingSupported() {
		_ = v4l2.CloseDevice(fd)
		return nil, fmt.Errorf("capture: %s: %w", path, v4l2.ErrUnsupportedDevce)
	}
	if !cap.IsVideoCaptureSupported() {
		_ = v4l2.CloseDevice(fd)
		return nil, fmt.Errorf("capture: %s: %w", path, v4l2.ErrUnsupportedDevce)
	}
	s.cap = cap

	if s.cfg.cropDefault {
		if cc, err := v4l2.GetCropCapability(fd, v4l2.BufTypeVideoCapture); err == nil {
			_ = v4l2.SetCropRect(fd, cc.DefaultRect)
		}
	}

	if s.cfg.pixFormat != (v4l2.PixFormat{}) {
		format, err := v4l2.SetPixFormat(fd, s.cfg.pixFormat)
		if err != nil {
			_ = v4l2.CloseDevice(fd)
			return nil, err
		}
		s.format = format
	} else {
		format, err := v4l2.GetPixFormat(fd)
		if err != nil {
			_ = v4l2.CloseDevice(fd)
			return nil, err
		}
		s.format = format
	}
	if _, ok := v4l2.PixelFormatNames[s.format.PixelFormat]; !ok {
		_ = v4l2.CloseDevice(fd)
		return nil, fmt.Errorf("capture: %s: %w: 0x%08x", path, v4l2.ErrUnsupportedFmt, s.format.PixelFormat)
	}

	if s.cfg.fps != 0 {
		if _, err := v4l2.SetStreamCaptureParam(fd, v4l2.CaptureParam{
			TimePerFrame: v4l2.Fract{Numerator: 1, Denominator: s.cfg.fps},
		}); err != nil {
			_ = v4l2.CloseDevice(fd)
			return nil, err
		}
	}

	return s, nil
}

// Capability returns the device capability queried at Open time.
func (s *Source) Capability() v4l2.Capability { return s.cap }

// PixFormat returns the pixel format negotiated at Open time.
func (s *Source) PixFormat() v4l2.PixFormat { return s.format }

// Path returns the device path this Source was opened against.
func (s *Source) Path() string { return s.path }

// Start requests and maps kernel buffers, enqueues them, and issues
// VIDIOC_STREAMON. The device begins filling buffers immediately; call
// NextBuffer to retrieve them.
func (s *Source) Start() error {
	if s.streaming {
		return fmt.Errorf("capture: %s: already streaming", s.path)
	}

	req, err := v4l2.InitBuffers(s.fd, s.cfg.bufferCount)
	if err != nil {
		return err
	}
	s.bufCount = req.Count

	buffers := make([][]byte, s.bufCount)
	for i := uint32(0); i < s.bufCount; i++ {
		buf, err := v4l2.QueryBuffer(s.fd, i)
		if err != nil {
			unmapAll(buffers)
			return err
		}
		data, err := v4l2.MapMemoryBuffer(s.fd, int64(buf.Offset), int(buf.Length))
		if err != nil {
			unmapAll(buffers)
			return err
		}
		buffers[i] = data
	}
	s.buffers = buffers

	for i := uint32(0); i < s.bufCount; i++ {
		if err := v4l2.QueueBuffer(s.fd, i); err != nil {
			unmapAll(s.buffers)
			return err
		}
	}

	if err := v4l2.StreamOn(s.fd); err != nil {
		unmapAll(s.buffers)
		return err
	}

	s.streaming = true
	return nil
}

func unmapAll(buffers [][]byte) {
	for _, b := range buffers {
		_ = v4l2.UnmapMemoryBuffer(b)
	}
}

// Stop issues VIDIOC_STREAMOFF and unmaps all buffers. Safe to call when
// not streaming (no-op).
func (s *Source) Stop() error {
	if !s.streaming {
		return nil
	}
	err := v4l2.StreamOff(s.fd)
	unmapAll(s.buffers)
	s.buffers = nil
	s.streaming = false
	return err
}

// Close stops the stream (if active) and closes the underlying file descriptor.
func (s *Source) Close() error {
	if err := s.Stop(); err != nil {
		return err
	}
	return v4l2.CloseDevice(s.fd)
}

// NextBuffer blocks until one filled kernel buffer is available, then
// returns a BorrowedBuffer scoping access to it. The caller must call
// Release exactly once (directly, or via a deferred call) to return the
// buffer to the driver's incoming queue; until Release is called the kernel
// will not reuse this buffer's memory.
//
// NextBuffer is synchronous: unlike go4vl's channel-based stream loop, it
// performs the select+dequeue itself on the calling goroutine, so the
// capture thread retains direct control of pacing and cancellation.
func (s *Source) NextBuffer() (BorrowedBuffer, error) {
	if !s.streaming {
		return BorrowedBuffer{}, ErrNotStreaming
	}

	for {
		if err := v4l2.WaitForRead(s.fd, 0); err != nil {
			return BorrowedBuffer{}, err
		}

		buf, err := v4l2.DequeueBuffer(s.fd)
		if err != nil {
			if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EINTR) {
				continue
			}
			return BorrowedBuffer{}, fmt.Errorf("capture: dequeue: %w", err)
		}

		if buf.Flags&v4l2.BufFlagError != 0 {
			if qerr := v4l2.QueueBuffer(s.fd, buf.Index); qerr != nil {
				return BorrowedBuffer{}, fmt.Errorf("capture: re-queue errored buffer: %w", qerr)
			}
			continue
		}

		return BorrowedBuffer{
			source:    s,
			index:     buf.Index,
			data:      s.buffers[buf.Index][:buf.BytesUsed],
			sequence:  buf.Sequence,
			timestamp: buf.Timestamp,
		}, nil
	}
}
