// Package v4l2 provides the subset of the Video4Linux2 ioctl protocol
// needed to stream from a capture device: capability query, pixel format
// negotiation, memory-mapped buffer request/queue/dequeue, and stream
// on/off.
//
// Struct layouts mirror the kernel UAPI headers (linux/videodev2.h)
// directly rather than going through cgo, so the package builds without a
// C toolchain or kernel headers present. Field layout, not field naming,
// is what the kernel ioctl ABI requires to match exactly.
package v4l2
