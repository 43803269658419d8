package camio

import (
	"fmt"
	"io/fs"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// OpenDevice opens a V4L2 character device, retrying on EINTR. It validates
// the path is a character device first, since os.OpenFile's normal open
// path causes some drivers to return EBUSY.
func OpenDevice(path string) (uintptr, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("camio: stat %s: %w", path, err)
	}
	if fi.Mode()&fs.ModeCharDevice == 0 {
		return 0, fmt.Errorf("camio: %s is not a character device", path)
	}

	for {
		fd, err := unix.Openat(unix.AT_FDCWD, path, unix.O_RDWR|unix.O_NONBLOCK, 0)
		if err == nil {
			return uintptr(fd), nil
		}
		if err == unix.EINTR {
			continue
		}
		return 0, &os.PathError{Op: "open", Path: path, Err: err}
	}
}

// CloseDevice closes a device fd opened with OpenDevice.
func CloseDevice(fd uintptr) error {
	return unix.Close(int(fd))
}

// Ioctl issues req against fd with arg as the argument pointer, retrying
// for as long as the call fails with EINTR.
func Ioctl(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg))
		switch errno {
		case 0:
			return nil
		case unix.EINTR:
			continue
		default:
			return errno
		}
	}
}

// Mmap maps length bytes of fd at offset, for one V4L2 capture buffer.
func Mmap(fd uintptr, offset int64, length int) ([]byte, error) {
	return unix.Mmap(int(fd), offset, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

// Munmap unmaps a buffer previously returned by Mmap.
func Munmap(data []byte) error {
	return unix.Munmap(data)
}

// WaitReadable blocks until fd is readable or timeout elapses, returning
// whether it became readable. Used by the stream's DQBUF loop instead of a
// blocking read so Stop can still be observed promptly.
func WaitReadable(fd uintptr, timeout time.Duration) (bool, error) {
	var fds unix.FdSet
	fds.Set(int(fd))
	tv := unix.NsecToTimeval(timeout.Nanoseconds())
	for {
		n, err := unix.Select(int(fd)+1, &fds, nil, nil, &tv)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}
}
