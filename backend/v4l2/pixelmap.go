package v4l2

import "github.com/octoglot/gocamcore/pixfmt"

// Native V4L2 FourCC codes from include/uapi/linux/videodev2.h. Packed the
// same little-endian way pixfmt.NewFourCC does, so the raw uint32 values
// are bit-identical between the two registries and no byte-swap is needed.
const (
	nativeYUYV uint32 = 0x56595559 // 'YUYV'
	nativeUYVY uint32 = 0x59565955 // 'UYVY'
	nativeNV12 uint32 = 0x3231564E // 'NV12'
	nativeYV12 uint32 = 0x32315659 // 'YV12'
	nativeBGR3 uint32 = 0x33524742 // 'BGR3'
	nativeRGB3 uint32 = 0x33424752 // 'RGB3'
	nativeRGBA uint32 = 0x41424752 // 'RGBA'
	nativeMJPG uint32 = 0x47504A4D // 'MJPG'
	nativeH264 uint32 = 0x34363248 // 'H264'
	nativeBA81 uint32 = 0x31384142 // 'BA81'
	nativeGBRG uint32 = 0x47524247 // 'GBRG'
	nativeGRBG uint32 = 0x47425247 // 'GRBG'
	nativeRGGB uint32 = 0x42474752 // 'RGGB'
)

var nativeToKnown = map[uint32]pixfmt.FourCC{
	nativeYUYV: pixfmt.YUYV,
	nativeUYVY: pixfmt.UYVY,
	nativeNV12: pixfmt.NV12,
	nativeYV12: pixfmt.YV12,
	nativeBGR3: pixfmt.BGR3,
	nativeRGB3: pixfmt.RGB3,
	nativeRGBA: pixfmt.RGBA,
	nativeMJPG: pixfmt.MJPEG,
	nativeH264: pixfmt.H264,
	nativeBA81: pixfmt.BA81,
	nativeGBRG: pixfmt.GBRG,
	nativeGRBG: pixfmt.GRBG,
	nativeRGGB: pixfmt.RGGB,
}

var knownToNative = func() map[pixfmt.FourCC]uint32 {
	m := make(map[pixfmt.FourCC]uint32, len(nativeToKnown))
	for native, code := range nativeToKnown {
		m[code] = native
	}
	return m
}()

// fromNative implements pixfmt.FromNativeFunc for V4L2: a registered code
// maps to a Known PixelFormat, anything else becomes Unknown (with a
// one-time warning logged here via pixfmt.WarnOnceUnknown).
func fromNative(native uint32) pixfmt.PixelFormat {
	if code, ok := nativeToKnown[native]; ok {
		return pixfmt.KnownFormat(code)
	}
	pixfmt.WarnOnceUnknown("v4l2", native)
	return pixfmt.UnknownFormat(native)
}

// toNative implements pixfmt.ToNativeFunc for V4L2.
func toNative(f pixfmt.PixelFormat) (uint32, bool) {
	if !f.Known {
		return uint32(f.Code), true
	}
	native, ok := knownToNative[f.Code]
	return native, ok
}
