package pixfmt

import (
	"sync"

	"github.com/octoglot/gocamcore/camlog"
)

// FromNativeFunc/ToNativeFunc are the per-backend contract from spec.md §6:
// "the Driver trait plus a pixel-map module exposing from_native(native)/
// to_native(fourcc) -> Option<native>". A concrete backend (e.g.
// backend/v4l2) supplies one of each; pixfmt owns only the warn-once
// bookkeeping shared by every backend's FromNative implementation.
type FromNativeFunc func(native uint32) PixelFormat
type ToNativeFunc func(PixelFormat) (native uint32, ok bool)

// unknownWarned tracks which raw native codes have already logged a
// one-time warning, keyed per call site (backend name + raw code) so two
// backends' overlapping raw values don't suppress each other's warning.
var unknownWarned sync.Map // map[string]struct{}

// WarnOnceUnknown logs a one-time warning the first time backend reports
// native as an unrecognized pixel format. Subsequent occurrences of the
// same (backend, native) pair are silent. This fulfills spec.md §4.1's
// "Unknown inputs map to PixelFormat::Unknown(raw) and log a one-time
// warning" without a single global sync.Once (which would only ever fire
// for the very first unknown code observed by the whole process).
func WarnOnceUnknown(backend string, native uint32) {
	key := backend + ":" + FourCC(native).String()
	if _, loaded := unknownWarned.LoadOrStore(key, struct{}{}); !loaded {
		camlog.L().Warn("pixfmt: unknown %s pixel format 0x%08x (%s)", backend, native, FourCC(native))
	}
}
