package bridge

import (
	"errors"
	"testing"

	"github.com/octoglot/gocamcore/backend/v4l2simu"
	"github.com/octoglot/gocamcore/camera"
	"github.com/octoglot/gocamcore/pixfmt"
)

func openTestBridge(t *testing.T) (*Bridge, *v4l2simu.Driver) {
	t.Helper()
	d := v4l2simu.NewDriver(v4l2simu.DefaultDevice("/dev/video0"))
	cfg := camera.NewCameraConfig().
		Resolution(640, 480, camera.PriorityRequired).
		Format(pixfmt.KnownFormat(pixfmt.YUYV), camera.PriorityRequired)
	b, err := Open(d, "/dev/video0", cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return b, d
}

func TestNextFrameSequenceIsMonotonic(t *testing.T) {
	b, _ := openTestBridge(t)
	defer b.Close()

	var last uint64
	for i := 0; i < 30; i++ {
		f, err := b.NextFrame()
		if err != nil {
			t.Fatalf("NextFrame %d: %v", i, err)
		}
		if f.Sequence <= last {
			t.Fatalf("sequence not increasing: got %d after %d", f.Sequence, last)
		}
		last = f.Sequence
	}
}

func TestSetResolutionReconfiguresStream(t *testing.T) {
	b, _ := openTestBridge(t)
	defer b.Close()

	for i := 0; i < 10; i++ {
		if _, err := b.NextFrame(); err != nil {
			t.Fatalf("NextFrame before reload: %v", err)
		}
	}

	if err := b.SetResolution(1280, 720); err != nil {
		t.Fatalf("SetResolution: %v", err)
	}

	for i := 0; i < 10; i++ {
		f, err := b.NextFrame()
		if err != nil {
			t.Fatalf("NextFrame after reload %d: %v", i, err)
		}
		if f.Width != 1280 || f.Height != 720 {
			t.Fatalf("frame %d has stale resolution %dx%d", i, f.Width, f.Height)
		}
	}
}

func TestControlsSurvivesReload(t *testing.T) {
	b, _ := openTestBridge(t)
	defer b.Close()

	if _, err := b.Controls().Sensor().SetExposureUs(2000); err != nil {
		t.Fatalf("SetExposureUs: %v", err)
	}
	if err := b.SetResolution(1280, 720); err != nil {
		t.Fatalf("SetResolution: %v", err)
	}
	// Controls() must return a live handle bound to the post-reload device,
	// not a stale pointer into the closed stream's fd.
	state := b.Controls().System().ExportState()
	if state["backend"] != "v4l2sim" {
		t.Fatalf("unexpected state after reload: %#v", state)
	}
}

func TestDisconnectSurfacesErrorAndStopsBridge(t *testing.T) {
	b, d := openTestBridge(t)
	defer b.Close()

	if _, err := b.NextFrame(); err != nil {
		t.Fatalf("NextFrame before disconnect: %v", err)
	}

	d.LastOpened("/dev/video0").Disconnect()

	if _, err := b.NextFrame(); !errors.Is(err, camera.ErrDisconnected) {
		t.Fatalf("NextFrame after disconnect: got %v, want ErrDisconnected", err)
	}

	// The bridge goes inert after a fatal error: the next call must fail
	// the same way, not silently start producing frames again.
	if _, err := b.NextFrame(); !errors.Is(err, camera.ErrStreamNotStarted) {
		t.Fatalf("NextFrame after inert: got %v, want ErrStreamNotStarted", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b, _ := openTestBridge(t)
	if err := b.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
