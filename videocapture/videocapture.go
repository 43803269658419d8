// Package videocapture is the synchronous facade from spec.md §6: a
// single-device convenience wrapper over bridge.Bridge that mirrors the
// feel of the source's `VideoCapture::open(index)` / `read()` API rather
// than exposing the bridge's command/response plumbing directly.
package videocapture

import (
	"fmt"

	"github.com/octoglot/gocamcore/backend/v4l2"
	"github.com/octoglot/gocamcore/bridge"
	"github.com/octoglot/gocamcore/camera"
	"github.com/octoglot/gocamcore/driver"
)

// VideoCapture is the synchronous handle returned by Open. It is not safe
// for concurrent use by multiple goroutines, matching the source's facade;
// the bridge underneath shares one response channel across calls, so it
// too assumes one caller at a time (only Controls is safe concurrently).
type VideoCapture struct {
	b      *bridge.Bridge
	opened bool
	width  uint32
	height uint32
}

// Open enumerates d's devices and opens the one at index, negotiating cfg.
// A nil d defaults to the real V4L2 backend.
func Open(index int, cfg camera.CameraConfig, d driver.Driver) (*VideoCapture, error) {
	if d == nil {
		d = v4l2.New()
	}
	devices, err := d.Enumerate()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(devices) {
		return nil, fmt.Errorf("videocapture: no device at index %d (found %d)", index, len(devices))
	}

	b, err := bridge.Open(d, devices[index].ID, cfg)
	if err != nil {
		return nil, err
	}

	frame, err := b.NextFrame()
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	return &VideoCapture{b: b, opened: true, width: frame.Width, height: frame.Height}, nil
}

// Read blocks for the next frame, copies it into dst, and reports whether
// a frame was delivered. It returns false (never panics) once the
// underlying stream has failed or been closed, matching the source's
// "read returns false on end-of-stream" contract, and keeps returning
// false until a SetResolution succeeds. The error itself is not reported.
func (v *VideoCapture) Read(dst *camera.Frame) bool {
	if !v.opened {
		return false
	}
	frame, err := v.b.NextFrame()
	if err != nil {
		v.opened = false
		return false
	}
	*dst = frame
	v.width, v.height = frame.Width, frame.Height
	return true
}

// SetResolution hot-reloads the stream at the new resolution (spec.md
// §4.8). On success, Width/Height immediately reflect the new geometry and
// a facade made inert by a failed Read can be read from again.
func (v *VideoCapture) SetResolution(w, h uint32) error {
	if err := v.b.SetResolution(w, h); err != nil {
		return err
	}
	v.width, v.height = w, h
	v.opened = true
	return nil
}

// IsOpened reports whether the facade can still be read from.
func (v *VideoCapture) IsOpened() bool { return v.opened }

// Width returns the most recently negotiated/delivered frame width.
func (v *VideoCapture) Width() uint32 { return v.width }

// Height returns the most recently negotiated/delivered frame height.
func (v *VideoCapture) Height() uint32 { return v.height }

// Controls exposes the underlying device's control plane, for callers that
// need exposure/gain/focus beyond what the synchronous facade covers.
func (v *VideoCapture) Controls() driver.DeviceControls { return v.b.Controls() }

// Close stops the stream and releases the device. Safe to call more than
// once.
func (v *VideoCapture) Close() error {
	v.opened = false
	return v.b.Close()
}
