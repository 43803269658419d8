package pixfmt

// PixelFormat is the tagged variant from spec.md §3: either a Known FourCC
// that participates in scoring, or an Unknown raw code that still carries
// through the data plane so a caller can receive the raw bytes. Go has no
// sum type, so the tag is an explicit bool rather than an enum discriminant.
type PixelFormat struct {
	Known bool
	Code  FourCC // valid FourCC when Known; raw driver value otherwise
}

// KnownFormat builds a Known PixelFormat from a registry FourCC.
func KnownFormat(cc FourCC) PixelFormat {
	return PixelFormat{Known: true, Code: cc}
}

// UnknownFormat builds an Unknown PixelFormat from a raw, unregistered code.
func UnknownFormat(raw uint32) PixelFormat {
	return PixelFormat{Known: false, Code: FourCC(raw)}
}

// String renders the four-character code regardless of Known/Unknown.
func (p PixelFormat) String() string {
	return p.Code.String()
}

// IsCompressed reports whether fmt is a compressed codec (MJPEG, H264).
// Unknown formats are never classified as compressed.
func (p PixelFormat) IsCompressed() bool {
	if !p.Known {
		return false
	}
	switch p.Code {
	case MJPEG, H264:
		return true
	default:
		return false
	}
}

// IsBayer reports whether fmt is a raw Bayer sensor format requiring
// demosaic. Unknown formats are never classified as Bayer.
func (p PixelFormat) IsBayer() bool {
	if !p.Known {
		return false
	}
	switch p.Code {
	case BA81, GBRG, GRBG, RGGB:
		return true
	default:
		return false
	}
}

// BppEstimate returns bits-per-pixel for bandwidth accounting, per the
// table in spec.md §4.1. Unknown formats estimate to 0.
func (p PixelFormat) BppEstimate() uint32 {
	if !p.Known {
		return 0
	}
	switch p.Code {
	case YUYV, UYVY, Z16:
		return 16
	case BGR3, RGB3:
		return 24
	case RGBA:
		return 32
	case NV12, YV12:
		return 12
	case BA81, GBRG, GRBG, RGGB:
		return 8
	case MJPEG, H264:
		return 4 // rough estimate; compressed formats have no fixed bpp
	default:
		return 0
	}
}

// Equal reports whether two PixelFormat values refer to the same code,
// regardless of how each was constructed (Known vs Unknown tagging is
// irrelevant to equality — only the underlying code matters, matching the
// source's cross-variant PartialEq impls between FourCC and PixelFormat).
func (p PixelFormat) Equal(other PixelFormat) bool {
	return p.Code == other.Code
}
