// Package v4l2simu is an in-memory driver.Driver used by tests where no
// real /dev/videoN exists. It generates a synthetic frame on demand for
// each NextFrame call, advancing a simulated hardware clock by one frame
// period plus jitter (it does not sleep), letting the rest of the core
// (negotiate, clocksync, bridge) run its real code paths without hardware.
package v4l2simu

import (
	"fmt"
	"sync"

	"github.com/octoglot/gocamcore/camera"
	"github.com/octoglot/gocamcore/clocksync"
	"github.com/octoglot/gocamcore/driver"
	"github.com/octoglot/gocamcore/negotiate"
	"github.com/octoglot/gocamcore/pixfmt"
)

// Device describes one simulated camera's advertised capability set.
type Device struct {
	Name       string
	ID         string
	Candidates []negotiate.Candidate
}

// Driver is a driver.Driver over a fixed, in-process set of Devices.
type Driver struct {
	mu      sync.Mutex
	devices map[string]Device
	// JitterNs bounds the per-frame hardware-timestamp jitter added around
	// the nominal frame period; 0 disables jitter.
	JitterNs int64
	// randState is a tiny xorshift PRNG, not math/rand/v2, so the fixture
	// stays deterministic across runs without pulling in a seeded global.
	randState uint64
	// lastOpened lets tests reach the concrete *Stream Open just handed
	// back to a caller (e.g. a bridge.Bridge), to drive fixture-only
	// behavior like Disconnect that isn't part of driver.Stream itself.
	lastOpened map[string]*Stream
}

// NewDriver builds a Driver advertising devices. Panics if devices is
// empty or contains a duplicate ID, since that's always a test-fixture
// bug, not a runtime condition.
func NewDriver(devices ...Device) *Driver {
	if len(devices) == 0 {
		panic("v4l2simu: NewDriver requires at least one device")
	}
	m := make(map[string]Device, len(devices))
	for _, d := range devices {
		if _, dup := m[d.ID]; dup {
			panic("v4l2simu: duplicate device id " + d.ID)
		}
		m[d.ID] = d
	}
	return &Driver{devices: m, randState: 0x9e3779b97f4a7c15, lastOpened: make(map[string]*Stream)}
}

// DefaultDevice returns a single-device fixture advertising 640x480 and
// 1280x720 YUYV plus 640x480 MJPEG, matching the negotiation examples in
// spec.md §8. Candidates carry no fps; the frame rate comes from the
// negotiated config.
func DefaultDevice(id string) Device {
	return Device{
		Name: "Simulated Camera",
		ID:   id,
		Candidates: []negotiate.Candidate{
			{Width: 640, Height: 480, Format: pixfmt.KnownFormat(pixfmt.YUYV)},
			{Width: 1280, Height: 720, Format: pixfmt.KnownFormat(pixfmt.YUYV)},
			{Width: 640, Height: 480, Format: pixfmt.KnownFormat(pixfmt.MJPEG)},
		},
	}
}

func (d *Driver) Enumerate() ([]camera.DeviceInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	infos := make([]camera.DeviceInfo, 0, len(d.devices))
	for _, dev := range d.devices {
		infos = append(infos, camera.DeviceInfo{Name: dev.Name, ID: dev.ID, Backend: "v4l2sim"})
	}
	return infos, nil
}

func (d *Driver) Open(id string, cfg camera.CameraConfig) (driver.Stream, driver.DeviceControls, error) {
	d.mu.Lock()
	dev, ok := d.devices[id]
	d.mu.Unlock()
	if !ok {
		return nil, nil, fmt.Errorf("v4l2simu: unknown device %q", id)
	}

	format, err := negotiate.Negotiate(cfg, negotiate.FromSlice(dev.Candidates))
	if err != nil {
		return nil, nil, err
	}

	s := &Stream{
		id:     id,
		format: format,
		sync:   clocksync.NewDefault(),
		jitter: d.JitterNs,
		driver: d,
	}

	d.mu.Lock()
	d.lastOpened[id] = s
	d.mu.Unlock()

	return s, &Controls{id: id}, nil
}

// LastOpened returns the most recently Open'd Stream for id, or nil if
// Open was never called for it. Test-only introspection hook.
func (d *Driver) LastOpened(id string) *Stream {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastOpened[id]
}

// nextJitter returns a value in [-bound, bound] using a process-local
// xorshift64 step, avoiding a dependency on math/rand's global lock.
func (d *Driver) nextJitter(bound int64) int64 {
	if bound <= 0 {
		return 0
	}
	d.mu.Lock()
	x := d.randState
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	d.randState = x
	d.mu.Unlock()
	return int64(x%uint64(2*bound+1)) - bound
}
