// Package pixfmt implements the canonical pixel-format registry shared by
// every backend: a four-character-code space, a tagged PixelFormat union
// that lets unknown driver formats still flow through the data plane, and
// the bandwidth/classification helpers the negotiator and stream need.
package pixfmt

import "fmt"

// FourCC is a 32-bit packed identifier of four ASCII bytes, little-endian.
// Equality is bitwise.
type FourCC uint32

// NewFourCC packs four bytes into a FourCC the same way V4L2 and friends do.
func NewFourCC(a, b, c, d byte) FourCC {
	return FourCC(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

// String renders the FourCC as its four ASCII characters.
func (f FourCC) String() string {
	b := [4]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)}
	return string(b[:])
}

// GoString supports %#v / debug printing as FourCC(<four characters>).
func (f FourCC) GoString() string {
	return fmt.Sprintf("FourCC(%s)", f.String())
}

// Known pixel formats. This is a closed registry: anything else observed
// from a driver becomes PixelFormat{Known: false}.
var (
	YUYV = NewFourCC('Y', 'U', 'Y', 'V')
	UYVY = NewFourCC('U', 'Y', 'V', 'Y')
	NV12 = NewFourCC('N', 'V', '1', '2')
	YV12 = NewFourCC('Y', 'V', '1', '2')

	BGR3 = NewFourCC('B', 'G', 'R', '3')
	RGB3 = NewFourCC('R', 'G', 'B', '3')
	RGBA = NewFourCC('R', 'G', 'B', 'A')

	MJPEG = NewFourCC('M', 'J', 'P', 'G')
	H264  = NewFourCC('H', '2', '6', '4')

	BA81 = NewFourCC('B', 'A', '8', '1')
	GBRG = NewFourCC('G', 'B', 'R', 'G')
	GRBG = NewFourCC('G', 'R', 'B', 'G')
	RGGB = NewFourCC('R', 'G', 'G', 'B')

	Z16 = NewFourCC('Z', '1', '6', ' ')
)

// knownCodes backs IsKnown without forcing every caller to enumerate the
// constants above by hand.
var knownCodes = map[FourCC]struct{}{
	YUYV: {}, UYVY: {}, NV12: {}, YV12: {},
	BGR3: {}, RGB3: {}, RGBA: {},
	MJPEG: {}, H264: {},
	BA81: {}, GBRG: {}, GRBG: {}, RGGB: {},
	Z16: {},
}

// IsKnown reports whether cc is one of the registry's closed set of codes.
func IsKnown(cc FourCC) bool {
	_, ok := knownCodes[cc]
	return ok
}
