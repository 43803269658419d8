//go:build camsim

package v4l2

import (
	"time"

	"github.com/octoglot/gocamcore/camera"
)

// InjectFrame returns a synthetic frame over data as if it had just been
// dequeued from the driver, bypassing the real ioctl path; the mmap ring
// itself is not touched. Build-tagged
// camsim so it never ships in a production binary; grounded on the
// source's #[cfg(feature = "simulation")] inject_frame escape hatch
// (spec.md §4.5).
func (s *Stream) InjectFrame(data []byte, hwNs uint64) (*camera.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, camera.ErrStreamNotStarted
	}

	s.lastSeq++
	s.haveSeq = true
	corrected := s.sync.Correct(hwNs, time.Now())

	s.outFrame = camera.Frame{
		Data:     data,
		Width:    s.format.Width,
		Height:   s.format.Height,
		Stride:   s.stride,
		Format:   s.format.Format,
		Sequence: s.lastSeq,
		Timestamp: camera.Timestamp{
			HWRawNs:      hwNs,
			SystemSynced: corrected,
		},
		BackendHandle: camera.NoopHandle("v4l2-sim"),
	}
	return &s.outFrame, nil
}
