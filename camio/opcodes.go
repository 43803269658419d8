package camio

import "unsafe"

// VIDIOC_* opcodes, encoded the same way the kernel's ioctl.h macros do.
// Numbers and directions taken from include/uapi/linux/videodev2.h.
var (
	VidiocQueryCap  = iocEncRead('V', 0, uintptr(unsafe.Sizeof(Capability{})))
	VidiocGetFormat = iocEncReadWrite('V', 4, uintptr(unsafe.Sizeof(Format{})))
	VidiocSetFormat = iocEncReadWrite('V', 5, uintptr(unsafe.Sizeof(Format{})))
	VidiocReqBufs   = iocEncReadWrite('V', 8, uintptr(unsafe.Sizeof(RequestBuffers{})))
	VidiocQueryBuf  = iocEncReadWrite('V', 9, uintptr(unsafe.Sizeof(Buffer{})))
	VidiocQueueBuf  = iocEncReadWrite('V', 15, uintptr(unsafe.Sizeof(Buffer{})))
	VidiocDequeueBuf = iocEncReadWrite('V', 17, uintptr(unsafe.Sizeof(Buffer{})))
	VidiocStreamOn  = iocEncWrite('V', 18, uintptr(unsafe.Sizeof(int32(0))))
	VidiocStreamOff = iocEncWrite('V', 19, uintptr(unsafe.Sizeof(int32(0))))
	VidiocEnumFmt        = iocEncReadWrite('V', 2, uintptr(unsafe.Sizeof(FmtDesc{})))
	VidiocEnumFrameSizes = iocEncReadWrite('V', 74, uintptr(unsafe.Sizeof(FrameSizeEnum{})))
	VidiocGetCtrl        = iocEncReadWrite('V', 27, uintptr(unsafe.Sizeof(Control{})))
	VidiocSetCtrl        = iocEncReadWrite('V', 28, uintptr(unsafe.Sizeof(Control{})))
)

// USBDEVFS_RESET, from include/uapi/linux/usbdevice_fs.h: _IO('U', 20).
// Used by backend/v4l2's ForceReset when the device's sysfs path resolves
// to a USB device.
var UsbDevFSReset = iocEnc(iocOpNone, 'U', 20, 0)
