package camera

import (
	"time"

	"github.com/octoglot/gocamcore/pixfmt"
)

// DeviceInfo describes one enumerated camera, per spec.md §3.
type DeviceInfo struct {
	Name    string // user-facing display name, e.g. "Logitech C920"
	ID      string // opaque handle accepted by Driver.Open, e.g. "/dev/video0"
	Backend string // "V4L2", "MSMF", "AVFoundation", ...
	BusInfo string // optional bus topology string; empty if unavailable
}

// NegotiatedFormat is C3's output, consumed by C5 to configure the capture
// pipeline.
type NegotiatedFormat struct {
	Width  uint32
	Height uint32
	Format pixfmt.PixelFormat
	FPS    uint32
}

// Timestamp carries both the raw hardware clock and the clocksync-corrected
// projection onto the process-local monotonic clock, per spec.md §3.
type Timestamp struct {
	HWRawNs      uint64        // driver-provided monotonic hardware timestamp, ns
	SystemSynced time.Duration // clocksync-corrected offset from process start
}

// FrameMetadata carries the per-frame sensor/trigger state spec.md §3
// describes. All fields are optional/zero-value-safe.
type FrameMetadata struct {
	ActualExposureUs *uint32
	ActualGainDb     *float32
	TriggerFired     bool
	StrobeActive     bool
}

// BackendBufferHandle is the escape hatch for backend-specific interop
// (e.g. exporting a DMA-BUF fd on Linux). The zero value is the "no
// interop available" case; backends that can offer more implement their
// own type satisfying this interface.
type BackendBufferHandle interface {
	// Backend names which backend produced the handle, e.g. "v4l2".
	Backend() string
}

// noopHandle is the default BackendBufferHandle used when a backend has
// nothing more specific to offer.
type noopHandle struct{ backend string }

func (h noopHandle) Backend() string { return h.backend }

// NoopHandle returns a BackendBufferHandle that only identifies its backend.
func NoopHandle(backend string) BackendBufferHandle { return noopHandle{backend: backend} }

// Frame is a borrowed view into a Stream's ring buffer, per spec.md §3.
// It is valid only until the next call to NextFrame on the producing
// Stream; Go has no borrow checker to enforce this statically, so the
// contract is: copy Data before advancing the stream if you need to retain
// it (spec.md §9(a)).
//
// Invariant: for uncompressed formats, len(Data) >= Stride*Height. Stride
// may exceed Width*bytesPerPixel due to alignment. For compressed formats
// Stride may be 0 and len(Data) is the driver-reported payload length.
type Frame struct {
	Data          []byte
	Width         uint32
	Height        uint32
	Stride        int // bytes per line; 0 is legal for compressed formats
	Format        pixfmt.PixelFormat
	Sequence      uint64
	Timestamp     Timestamp
	Metadata      FrameMetadata
	BackendHandle BackendBufferHandle
}
