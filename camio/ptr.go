package camio

import "unsafe"

// pointerInto returns an unsafe.Pointer to the first byte of b, for
// reinterpreting a raw union payload as a typed struct.
func pointerInto(b []byte) unsafe.Pointer {
	return unsafe.Pointer(&b[0])
}
