// Package driver defines the backend contract from spec.md §4.4: every OS
// backend (V4L2, MSMF, AVFoundation) implements Driver, Stream, and
// DeviceControls. The core (negotiate, clocksync, bridge) depends only on
// these interfaces, never on a concrete backend.
package driver

import (
	"github.com/octoglot/gocamcore/camera"
	"github.com/octoglot/gocamcore/pixfmt"
)

// Driver enumerates and opens devices for one OS backend.
type Driver interface {
	// Enumerate lists the devices currently visible to this backend.
	Enumerate() ([]camera.DeviceInfo, error)

	// Open negotiates cfg against the device identified by id and returns a
	// ready-to-Start Stream plus its DeviceControls. cfg is consumed by
	// value; the returned Stream owns whatever resources Open acquired.
	Open(id string, cfg camera.CameraConfig) (Stream, DeviceControls, error)
}

// Stream is the data-plane handle from spec.md §4.5: start/stop the
// capture pipeline and pull frames one at a time.
type Stream interface {
	// Start begins streaming. Idempotent: calling Start on an already
	// started stream is a no-op returning nil.
	Start() error

	// Stop halts streaming. Idempotent. It does not free the buffer ring:
	// buffers stay allocated (and, on V4L2, mapped) until Close.
	Stop() error

	// Close releases the device handle itself (the fd and any mmap'd
	// buffer ring backing it), fully returning it to the OS. Callers
	// (bridge's hot-reload) must call Close after Stop before Open'ing a
	// replacement Stream for the same device, so the driver sees a clean
	// handle to allocate fresh DMA buffers against (spec.md §4.8).
	Close() error

	// NextFrame blocks until a frame is available and returns a pointer
	// into the stream's ring buffer. The returned *camera.Frame is valid
	// only until the next call to NextFrame on this Stream (spec.md §3,
	// §9(a)) or until WithNextFrame's callback returns.
	NextFrame() (*camera.Frame, error)

	// WithNextFrame calls fn with the next frame and guarantees the frame
	// stays valid for the duration of the call, per spec.md §9(a)'s
	// scope/callback option for callers who want a stronger guarantee than
	// NextFrame's "valid until the next call" convention.
	WithNextFrame(fn func(*camera.Frame) error) error

	// Format returns the negotiated format this stream was opened with.
	Format() camera.NegotiatedFormat
}

// DeviceControls is the control-plane handle from spec.md §4.6: sensor,
// lens, and system-level controls that can be adjusted independently of
// the data plane and while streaming.
type DeviceControls interface {
	Sensor() SensorControl
	Lens() LensControl
	System() SystemControl
}

// SensorControl adjusts exposure/gain, reporting back the actual applied
// value where the hardware can only approximate a request.
type SensorControl interface {
	SetExposureUs(us uint32) (actualUs uint32, err error)
	SetGainDb(db float32) (actualDb float32, err error)
}

// LensControl adjusts focus/zoom/aperture on devices that expose them.
// Implementations return camera.ErrUnsupported for controls the attached
// lens doesn't have.
type LensControl interface {
	SetFocus(value int32) error
	SetZoom(value int32) error
	SetAperture(value int32) error
}

// SystemControl covers device-wide operations that aren't part of the
// per-frame pixel pipeline.
type SystemControl interface {
	// ExportState returns a JSON-marshalable snapshot of the device's
	// current control values, always including a "backend" key (spec.md
	// §6).
	ExportState() map[string]any

	// ForceReset attempts a hard reset of the underlying hardware link
	// (e.g. a USB port reset). Returns camera.ErrUnsupported if this
	// backend/device combination has no such mechanism.
	ForceReset() error

	// SetTrigger configures external/software triggering (spec.md §4.6:
	// "system (reset, trigger, state export)"). Returns
	// camera.ErrUnsupported if the backend/device can't trigger.
	SetTrigger(cfg camera.TriggerConfig) error
}

// NativeFormatCodec is the per-backend pixel-format translation contract
// spec.md §4.1 describes as "FromNative/ToNative per backend": a backend
// supplies one of these to pixfmt-consuming code instead of pixfmt having
// to know about every backend's native pixel format encoding.
type NativeFormatCodec struct {
	FromNative pixfmt.FromNativeFunc
	ToNative   pixfmt.ToNativeFunc
}
