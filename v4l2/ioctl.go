package v4l2

import (
	"syscall"
	"unsafe"
)

// ioctl command encoding, per include/uapi/asm-generic/ioctl.h: the
// request number packs direction, type, number and size into 32 bits.
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits
)

const (
	iocNone  = 0
	iocWrite = 1
	iocRead  = 2
)

func ioc(dir, typ, nr, size uintptr) uintptr {
	return (dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift)
}

func iow(typ, nr, size uintptr) uintptr  { return ioc(iocWrite, typ, nr, size) }
func ior(typ, nr, size uintptr) uintptr  { return ioc(iocRead, typ, nr, size) }
func iowr(typ, nr, size uintptr) uintptr { return ioc(iocRead|iocWrite, typ, nr, size) }

var (
	vidiocQueryCap  = ior(uintptr('V'), 0, unsafe.Sizeof(Capability{}))
	vidiocGetFormat = iowr(uintptr('V'), 4, unsafe.Sizeof(rawFormat{}))
	vidiocSetFormat = iowr(uintptr('V'), 5, unsafe.Sizeof(rawFormat{}))
	vidiocReqBufs   = iowr(uintptr('V'), 8, unsafe.Sizeof(RequestBuffers{}))
	vidiocQueryBuf  = iowr(uintptr('V'), 9, unsafe.Sizeof(Buffer{}))
	vidiocQBuf      = iowr(uintptr('V'), 15, unsafe.Sizeof(Buffer{}))
	vidiocDQBuf     = iowr(uintptr('V'), 17, unsafe.Sizeof(Buffer{}))
	vidiocStreamOn  = iow(uintptr('V'), 18, unsafe.Sizeof(uint32(0)))
	vidiocStreamOff = iow(uintptr('V'), 19, unsafe.Sizeof(uint32(0)))
	vidiocCropCap   = iowr(uintptr('V'), 58, unsafe.Sizeof(CropCapability{}))
	vidiocSetCrop   = iow(uintptr('V'), 60, unsafe.Sizeof(Rect{}))
	vidiocGetParm   = iowr(uintptr('V'), 21, unsafe.Sizeof(streamParam{}))
	vidiocSetParm   = iowr(uintptr('V'), 22, unsafe.Sizeof(streamParam{}))
)

// send issues a raw ioctl against fd with the given encoded request.
func send(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, req, uintptr(arg)); errno != 0 {
		return errno
	}
	return nil
}
