package camera

import (
	"errors"
	"fmt"
)

// Error taxonomy from spec.md §7. Plain kinds are sentinel errors so
// callers can use errors.Is. Kinds that carry data are struct types:
// BandwidthError and SimulationError implement Is against their sentinel
// (ErrBandwidthExceeded, ErrSimulation) and are reachable with errors.As;
// IOError has no sentinel of its own and unwraps to the underlying OS
// error.
var (
	// ErrDisconnected: device vanished mid-stream; fatal to the Stream,
	// recoverable by reopening.
	ErrDisconnected = errors.New("camera: device disconnected")

	// ErrDeviceBusy: another process holds the device; retryable by caller.
	ErrDeviceBusy = errors.New("camera: device busy")

	// ErrBufferOverflow: ring wrapped; frame dropped; non-fatal.
	ErrBufferOverflow = errors.New("camera: buffer overflow, frame dropped")

	// ErrFormatNotSupported: no candidate satisfies Required constraints;
	// fatal to Driver.Open.
	ErrFormatNotSupported = errors.New("camera: format negotiation failed, no hardware support for requested constraints")

	// ErrUnsupported: the operation has no meaning on this backend (e.g.
	// ForceReset on a device that isn't behind a resettable USB hub).
	ErrUnsupported = errors.New("camera: operation not supported by this backend")

	// ErrStreamNotStarted: NextFrame called while the stream is Idle.
	ErrStreamNotStarted = errors.New("camera: stream not started")

	// ErrIOTimeout: no frame arrived within the backend's read deadline.
	ErrIOTimeout = errors.New("camera: timed out waiting for frame")
)

// BandwidthError carries the detail spec.md §7 requires: negotiation
// succeeded but the driver refused to start because the negotiated format
// exceeds available USB/bus bandwidth.
type BandwidthError struct {
	RequiredMbps uint32
	LimitMbps    uint32
	Suggestion   string // e.g. "switch to MJPEG"
}

func (e *BandwidthError) Error() string {
	return fmt.Sprintf("camera: bandwidth exceeded (required %d Mbps, limit %d Mbps): %s",
		e.RequiredMbps, e.LimitMbps, e.Suggestion)
}

// Is lets errors.Is(err, ErrBandwidthExceeded) match any *BandwidthError.
func (e *BandwidthError) Is(target error) bool {
	return target == ErrBandwidthExceeded
}

// ErrBandwidthExceeded is the sentinel matched by BandwidthError.Is, so
// callers that don't care about the payload can still do
// errors.Is(err, camera.ErrBandwidthExceeded).
var ErrBandwidthExceeded = errors.New("camera: bandwidth exceeded")

// SimulationError wraps a message from the test-only inject-frame path.
type SimulationError struct {
	Msg string
}

func (e *SimulationError) Error() string { return "camera: simulation error: " + e.Msg }

func (e *SimulationError) Is(target error) bool {
	return target == ErrSimulation
}

// ErrSimulation is the sentinel matched by SimulationError.Is.
var ErrSimulation = errors.New("camera: simulation error")

// IOError wraps an underlying OS error verbatim, per spec.md §7's Io(kind).
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return "camera: io: " + e.Err.Error() }
func (e *IOError) Unwrap() error { return e.Err }

// WrapIO wraps an OS-level error as a camera.IOError. Returns nil if err is
// nil, so call sites can write `return camera.WrapIO(syscallErr)` freely.
func WrapIO(err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Err: err}
}
