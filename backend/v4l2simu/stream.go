package v4l2simu

import (
	"sync"
	"time"

	"github.com/octoglot/gocamcore/camera"
	"github.com/octoglot/gocamcore/clocksync"
)

// framePeriod approximates the negotiated fps; defaults to 30fps when the
// negotiator didn't pin one down.
func framePeriod(fps uint32) time.Duration {
	if fps == 0 {
		fps = 30
	}
	return time.Second / time.Duration(fps)
}

// Stream is the in-memory driver.Stream backing Driver.Open. It produces
// deterministic synthetic frame content (a counter stamped into the first
// bytes) rather than real pixels, since nothing in the core inspects pixel
// content, only Sequence/Timestamp/Format/len(Data).
type Stream struct {
	mu       sync.Mutex
	id       string
	format   camera.NegotiatedFormat
	sync     *clocksync.Synchronizer
	jitter   int64
	driver   *Driver
	started  bool
	seq      uint64
	hwClock  uint64
	disconn  bool
	outFrame camera.Frame
	buf      []byte
}

func (s *Stream) Format() camera.NegotiatedFormat { return s.format }

func (s *Stream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	size := int(s.format.Width) * int(s.format.Height) * 2 // YUYV-sized placeholder
	if s.format.Format.IsCompressed() {
		size = int(s.format.Width) * int(s.format.Height) / 4
	}
	s.buf = make([]byte, size)
	s.started = true
	return nil
}

func (s *Stream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
	return nil
}

// Close is a no-op: there is no fd or mmap ring behind a simulated
// stream. It exists to satisfy driver.Stream uniformly across backends.
func (s *Stream) Close() error {
	return nil
}

// Disconnect marks the stream as hardware-gone; the next NextFrame call
// returns camera.ErrDisconnected, exercising spec.md §8 scenario 6 without
// needing to unplug anything.
func (s *Stream) Disconnect() {
	s.mu.Lock()
	s.disconn = true
	s.mu.Unlock()
}

func (s *Stream) NextFrame() (*camera.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextFrameLocked()
}

func (s *Stream) WithNextFrame(fn func(*camera.Frame) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.nextFrameLocked()
	if err != nil {
		return err
	}
	return fn(f)
}

func (s *Stream) nextFrameLocked() (*camera.Frame, error) {
	if !s.started {
		return nil, camera.ErrStreamNotStarted
	}
	if s.disconn {
		return nil, camera.ErrDisconnected
	}

	period := framePeriod(s.format.FPS)
	s.hwClock += uint64(period.Nanoseconds())
	jitter := s.driver.nextJitter(s.jitter)
	hwNs := uint64(int64(s.hwClock) + jitter)

	s.seq++
	s.buf[0] = byte(s.seq)
	s.buf[1] = byte(s.seq >> 8)

	corrected := s.sync.Correct(hwNs, time.Now())
	s.outFrame = camera.Frame{
		Data:     s.buf,
		Width:    s.format.Width,
		Height:   s.format.Height,
		Stride:   int(s.format.Width) * 2,
		Format:   s.format.Format,
		Sequence: s.seq,
		Timestamp: camera.Timestamp{
			HWRawNs:      hwNs,
			SystemSynced: corrected,
		},
		BackendHandle: camera.NoopHandle("v4l2sim"),
	}
	return &s.outFrame, nil
}
