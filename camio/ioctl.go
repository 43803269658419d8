// Package camio is the non-cgo, syscall-level V4L2 plumbing: ioctl opcode
// encoding, the kernel struct layouts backend/v4l2 needs, and the
// open/mmap/select syscalls. It depends only on golang.org/x/sys/unix so
// backend/v4l2 never needs cgo or a linux/videodev2.h header at build time.
package camio

// ioctl request numbers are encoded the same way the Linux kernel's
// asm-generic/ioctl.h macros do: a direction (none/read/write/both), a
// type ('V' for V4L2), a sequence number, and the argument size, packed
// into a single uintptr.
const (
	iocOpNone  = 0
	iocOpWrite = 1
	iocOpRead  = 2

	iocNumberBits = 8
	iocTypeBits   = 8
	iocSizeBits   = 14

	numberShift = 0
	typeShift   = numberShift + iocNumberBits
	sizeShift   = typeShift + iocTypeBits
	opShift     = sizeShift + iocSizeBits
)

func iocEnc(op, typ, number, size uintptr) uintptr {
	return (op << opShift) | (typ << typeShift) | (number << numberShift) | (size << sizeShift)
}

func iocEncWrite(typ, number, size uintptr) uintptr {
	return iocEnc(iocOpWrite, typ, number, size)
}

func iocEncRead(typ, number, size uintptr) uintptr {
	return iocEnc(iocOpRead, typ, number, size)
}

func iocEncReadWrite(typ, number, size uintptr) uintptr {
	return iocEnc(iocOpRead|iocOpWrite, typ, number, size)
}
