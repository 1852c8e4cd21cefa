package capture

import (
	"fmt"
	"syscall"

	"meteorcam/v4l2"
)

// BorrowedBuffer is a scoped, exclusive borrow of one kernel capture buffer.
// Its Bytes slice aliases device memory that the kernel may start filling
// again as soon as Release re-enqueues it, so callers must finish reading
// (or copy out of) Bytes before calling Release.
type BorrowedBuffer struct {
	source    *Source
	index     uint32
	data      []byte
	sequence  uint32
	timestamp syscall.Timeval

	released bool
}

// Bytes returns the captured frame payload. Valid only until Release is called.
func (b BorrowedBuffer) Bytes() []byte { return b.data }

// Sequence is the driver-reported frame sequence number, used by
// frame.RateMonitor to detect gaps.
func (b BorrowedBuffer) Sequence() uint32 { return b.sequence }

// EpochTimeUs converts the kernel-reported capture timestamp (which is
// normally CLOCK_MONOTONIC, i.e. device uptime) to microseconds.
func (b BorrowedBuffer) EpochTimeUs() int64 {
	return int64(b.timestamp.Sec)*1_000_000 + int64(b.timestamp.Usec)
}

// Release re-enqueues this buffer with the driver (VIDIOC_QBUF), making its
// memory available for the kernel to fill again. Must be called exactly
// once per BorrowedBuffer; calling it twice is a programmer error.
func (b *BorrowedBuffer) Release() error {
	if b.released {
		return fmt.Errorf("capture: buffer %d already released", b.index)
	}
	b.released = true
	return v4l2.QueueBuffer(b.source.fd, b.index)
}
