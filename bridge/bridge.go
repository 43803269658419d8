// Package bridge implements the async-to-sync bridge from spec.md §4.7: a
// single goroutine owns the driver.Driver, the open device id, and an
// optional driver.Stream, and every interaction crosses a pair of
// buffered-1 command/response channels. Go has no Option<T>, so the
// "optional stream" is a nil-able field.
package bridge

import (
	"sync"

	"github.com/octoglot/gocamcore/camera"
	"github.com/octoglot/gocamcore/driver"
)

// command is the sum type of requests the bridge goroutine accepts. Go has
// no enum, so each variant is its own type and the channel carries the
// interface.
type command interface{ isCommand() }

type cmdNextFrame struct{ withCallback func(*camera.Frame) error }
type cmdSetResolution struct{ W, H uint32 }
type cmdSetFPS struct{ FPS uint32 }
type cmdSetFormat struct{ Format camera.NegotiatedFormat }
type cmdStop struct{}

func (cmdNextFrame) isCommand()     {}
func (cmdSetResolution) isCommand() {}
func (cmdSetFPS) isCommand()        {}
func (cmdSetFormat) isCommand()     {}
func (cmdStop) isCommand()          {}

// response is the sum type of replies the bridge goroutine sends back.
type response interface{ isResponse() }

type respFrame struct {
	Frame camera.Frame
}
type respPropertySet struct{}
type respError struct{ Err error }
type respEOF struct{}

func (respFrame) isResponse()       {}
func (respPropertySet) isResponse() {}
func (respError) isResponse()       {}
func (respEOF) isResponse()         {}

// Bridge is the synchronous handle onto the background goroutine. Callers
// (videocapture) interact with it only through Bridge's methods, never the
// channels directly.
type Bridge struct {
	commands  chan command
	responses chan response
	done      chan struct{}

	controlsMu sync.Mutex
	controls   driver.DeviceControls
}

// Open opens id against d with cfg and starts the stream on the caller's
// goroutine, then hands the stream to a new bridge goroutine. If
// Driver.Open or Start fails, Open returns the error and no goroutine is
// started.
func Open(d driver.Driver, id string, cfg camera.CameraConfig) (*Bridge, error) {
	stream, controls, err := d.Open(id, cfg)
	if err != nil {
		return nil, err
	}
	if err := stream.Start(); err != nil {
		_ = stream.Stop()
		_ = stream.Close()
		return nil, err
	}

	b := &Bridge{
		commands:  make(chan command, 1),
		responses: make(chan response, 1),
		done:      make(chan struct{}),
		controls:  controls,
	}
	go b.run(d, id, cfg, stream)
	return b, nil
}

// Controls returns the device's current control-plane handle. Safe to call
// concurrently with NextFrame/SetResolution/etc: control ioctls share the
// device fd but don't touch the bridge goroutine's state, and the pointer
// itself is swapped under controlsMu on every successful reload.
func (b *Bridge) Controls() driver.DeviceControls {
	b.controlsMu.Lock()
	defer b.controlsMu.Unlock()
	return b.controls
}

func (b *Bridge) setControls(c driver.DeviceControls) {
	b.controlsMu.Lock()
	b.controls = c
	b.controlsMu.Unlock()
}

func (b *Bridge) run(d driver.Driver, id string, cfg camera.CameraConfig, stream driver.Stream) {
	defer close(b.done)
	defer func() {
		if stream != nil {
			_ = stream.Stop()
			_ = stream.Close()
		}
	}()

	inert := false // true once a fatal error has been surfaced; bridge stops trying

	for cmd := range b.commands {
		switch c := cmd.(type) {
		case cmdStop:
			b.responses <- respEOF{}
			return

		case cmdNextFrame:
			if inert || stream == nil {
				b.responses <- respError{Err: camera.ErrStreamNotStarted}
				continue
			}
			if c.withCallback != nil {
				err := stream.WithNextFrame(c.withCallback)
				if err != nil {
					inert = true
					b.responses <- respError{Err: err}
					continue
				}
				b.responses <- respPropertySet{}
				continue
			}
			frame, err := stream.NextFrame()
			if err != nil {
				inert = true
				b.responses <- respError{Err: err}
				continue
			}
			b.responses <- respFrame{Frame: copyFrame(frame)}

		case cmdSetResolution:
			newCfg := cfg
			newCfg.ResolutionWishes = nil // replace, so an earlier Required size can't win
			newCfg = newCfg.Resolution(c.W, c.H, camera.PriorityRequired)
			newStream, newControls, err := reload(d, id, newCfg, stream)
			if err != nil {
				stream = nil
				inert = false // stream is nil, so NextFrame keeps failing until a reload succeeds
				b.responses <- respError{Err: err}
				continue
			}
			stream, cfg = newStream, newCfg
			b.setControls(newControls)
			inert = false
			b.responses <- respPropertySet{}

		case cmdSetFPS:
			newCfg := cfg.FPS(c.FPS, camera.PriorityHigh)
			newStream, newControls, err := reload(d, id, newCfg, stream)
			if err != nil {
				stream = nil
				b.responses <- respError{Err: err}
				continue
			}
			stream, cfg = newStream, newCfg
			b.setControls(newControls)
			inert = false
			b.responses <- respPropertySet{}

		case cmdSetFormat:
			newCfg := cfg
			newCfg.FormatWishes = nil // replace, so an earlier Required format can't win
			newCfg = newCfg.Format(c.Format.Format, camera.PriorityRequired)
			newStream, newControls, err := reload(d, id, newCfg, stream)
			if err != nil {
				stream = nil
				b.responses <- respError{Err: err}
				continue
			}
			stream, cfg = newStream, newCfg
			b.setControls(newControls)
			inert = false
			b.responses <- respPropertySet{}
		}
	}
}

// copyFrame clones frame's pixel data into a freshly allocated, owned
// byte slice. frame.Data otherwise aliases the Stream's live mmap ring
// (stream.go's buffers); the next NextFrame re-queues that same buffer
// index to the kernel, which can overwrite it while the caller still
// holds the previous Frame. This is the crossing-the-async-boundary copy
// spec.md §4.7 requires.
func copyFrame(frame *camera.Frame) camera.Frame {
	out := *frame
	out.Data = append([]byte(nil), frame.Data...)
	return out
}

// NextFrame asks the bridge for the next frame, blocking until it arrives
// or an error occurs. The returned Frame is a copy, safe to use after the
// call returns (the bridge goroutine still owns the original mmap'd
// buffer).
func (b *Bridge) NextFrame() (camera.Frame, error) {
	b.commands <- cmdNextFrame{}
	switch r := (<-b.responses).(type) {
	case respFrame:
		return r.Frame, nil
	case respError:
		return camera.Frame{}, r.Err
	default:
		return camera.Frame{}, camera.ErrStreamNotStarted
	}
}

// SetResolution reloads the stream at the new resolution (spec.md §4.8).
func (b *Bridge) SetResolution(w, h uint32) error {
	b.commands <- cmdSetResolution{W: w, H: h}
	return b.awaitAck()
}

// SetFPS reloads the stream at the new fps.
func (b *Bridge) SetFPS(fps uint32) error {
	b.commands <- cmdSetFPS{FPS: fps}
	return b.awaitAck()
}

// SetFormat reloads the stream at the new pixel format.
func (b *Bridge) SetFormat(format camera.NegotiatedFormat) error {
	b.commands <- cmdSetFormat{Format: format}
	return b.awaitAck()
}

func (b *Bridge) awaitAck() error {
	switch r := (<-b.responses).(type) {
	case respPropertySet:
		return nil
	case respError:
		return r.Err
	default:
		return camera.ErrStreamNotStarted
	}
}

// Close sends Stop and waits for the bridge goroutine to drain, matching
// spec.md §5's "Dropping the sync facade MUST send Stop and allow the
// background task to drain to completion" (Go has no Drop, so this is the
// explicit equivalent).
func (b *Bridge) Close() error {
	select {
	case <-b.done:
		return nil // goroutine already exited (an earlier Close)
	default:
	}
	b.commands <- cmdStop{}
	<-b.responses
	<-b.done
	return nil
}
