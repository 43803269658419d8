package videocapture

import (
	"testing"

	"github.com/octoglot/gocamcore/backend/v4l2simu"
	"github.com/octoglot/gocamcore/camera"
	"github.com/octoglot/gocamcore/pixfmt"
)

func testConfig() camera.CameraConfig {
	return camera.NewCameraConfig().
		Resolution(640, 480, camera.PriorityRequired).
		Format(pixfmt.KnownFormat(pixfmt.YUYV), camera.PriorityRequired)
}

func TestOpenReadAndClose(t *testing.T) {
	d := v4l2simu.NewDriver(v4l2simu.DefaultDevice("/dev/video0"))
	vc, err := Open(0, testConfig(), d)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer vc.Close()

	if !vc.IsOpened() {
		t.Fatalf("expected IsOpened true after Open")
	}
	if vc.Width() != 640 || vc.Height() != 480 {
		t.Fatalf("unexpected dims %dx%d", vc.Width(), vc.Height())
	}

	var f camera.Frame
	for i := 0; i < 5; i++ {
		if !vc.Read(&f) {
			t.Fatalf("Read %d returned false", i)
		}
	}
}

func TestSetResolutionUpdatesDims(t *testing.T) {
	d := v4l2simu.NewDriver(v4l2simu.DefaultDevice("/dev/video0"))
	vc, err := Open(0, testConfig(), d)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer vc.Close()

	if err := vc.SetResolution(1280, 720); err != nil {
		t.Fatalf("SetResolution: %v", err)
	}
	if vc.Width() != 1280 || vc.Height() != 720 {
		t.Fatalf("dims not updated: %dx%d", vc.Width(), vc.Height())
	}

	var f camera.Frame
	if !vc.Read(&f) {
		t.Fatalf("Read after SetResolution returned false")
	}
	if f.Width != 1280 || f.Height != 720 {
		t.Fatalf("frame still at old resolution: %dx%d", f.Width, f.Height)
	}
}

func TestOpenOutOfRangeIndexFails(t *testing.T) {
	d := v4l2simu.NewDriver(v4l2simu.DefaultDevice("/dev/video0"))
	if _, err := Open(5, testConfig(), d); err == nil {
		t.Fatalf("expected error for out-of-range index")
	}
}

func TestReadAfterDisconnectReturnsFalse(t *testing.T) {
	d := v4l2simu.NewDriver(v4l2simu.DefaultDevice("/dev/video0"))
	vc, err := Open(0, testConfig(), d)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer vc.Close()

	d.LastOpened("/dev/video0").Disconnect()

	var f camera.Frame
	if vc.Read(&f) {
		t.Fatalf("expected Read to return false after disconnect")
	}
	if vc.IsOpened() {
		t.Fatalf("expected IsOpened false after a failed Read")
	}
}
