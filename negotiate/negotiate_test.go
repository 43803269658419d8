package negotiate

import (
	"errors"
	"testing"

	"github.com/octoglot/gocamcore/camera"
	"github.com/octoglot/gocamcore/pixfmt"
)

// TestRequiredResolutionSelectsBestFormatMatch is scenario 2 from spec.md
// §8: a Required resolution plus a High format preference should pick the
// candidate matching both over one matching only the resolution.
func TestRequiredResolutionSelectsBestFormatMatch(t *testing.T) {
	cfg := camera.NewCameraConfig().
		Resolution(640, 480, camera.PriorityRequired).
		Format(pixfmt.KnownFormat(pixfmt.YUYV), camera.PriorityHigh)

	candidates := FromSlice([]Candidate{
		{320, 240, pixfmt.KnownFormat(pixfmt.YUYV)},
		{640, 480, pixfmt.KnownFormat(pixfmt.UYVY)},
		{640, 480, pixfmt.KnownFormat(pixfmt.YUYV)},
	})

	got, err := Negotiate(cfg, candidates)
	if err != nil {
		t.Fatalf("Negotiate returned error: %v", err)
	}
	if got.Width != 640 || got.Height != 480 || !got.Format.Equal(pixfmt.KnownFormat(pixfmt.YUYV)) {
		t.Fatalf("got %+v, want 640x480 YUYV", got)
	}

	score := scoreCandidate(cfg, got.Width, got.Height, got.Format)
	const wantMin = int(camera.PriorityRequired)*10 + int(camera.PriorityHigh)*10
	if score < wantMin {
		t.Fatalf("score = %d, want >= %d", score, wantMin)
	}
}

// TestRequiredResolutionUnsatisfiableFails is scenario 3 from spec.md §8: a
// Required resolution with no matching candidate must fail with
// camera.ErrFormatNotSupported rather than best-effort picking the closest.
func TestRequiredResolutionUnsatisfiableFails(t *testing.T) {
	cfg := camera.NewCameraConfig().Resolution(1920, 1080, camera.PriorityRequired)

	candidates := FromSlice([]Candidate{
		{640, 480, pixfmt.KnownFormat(pixfmt.YUYV)},
	})

	_, err := Negotiate(cfg, candidates)
	if !errors.Is(err, camera.ErrFormatNotSupported) {
		t.Fatalf("err = %v, want camera.ErrFormatNotSupported", err)
	}
}

// TestEmptyCandidateSetFails covers the degenerate case of a device that
// advertises no formats at all.
func TestEmptyCandidateSetFails(t *testing.T) {
	cfg := camera.NewCameraConfig()
	_, err := Negotiate(cfg, FromSlice(nil))
	if !errors.Is(err, camera.ErrFormatNotSupported) {
		t.Fatalf("err = %v, want camera.ErrFormatNotSupported", err)
	}
}

// TestNoWishesPicksByDistanceAndBiasOnly exercises the resolution_distance
// and w/100 tiebreaker paths when no resolution wishes are configured.
func TestNoWishesPicksByDistanceAndBiasOnly(t *testing.T) {
	cfg := camera.NewCameraConfig()
	candidates := FromSlice([]Candidate{
		{320, 240, pixfmt.KnownFormat(pixfmt.YUYV)},
		{640, 480, pixfmt.KnownFormat(pixfmt.YUYV)},
	})

	got, err := Negotiate(cfg, candidates)
	if err != nil {
		t.Fatalf("Negotiate returned error: %v", err)
	}
	// Both candidates hit resolution_distance == -1000 (no wishes); the
	// w/100 bias then prefers the larger width.
	if got.Width != 640 || got.Height != 480 {
		t.Fatalf("got %+v, want 640x480 (larger width wins tiebreaker)", got)
	}
}

// TestFirstMatchWinsTies ensures iteration order breaks exact ties, per
// spec.md §4.3's "ties broken by iteration order, first wins".
func TestFirstMatchWinsTies(t *testing.T) {
	cfg := camera.NewCameraConfig().Format(pixfmt.KnownFormat(pixfmt.YUYV), camera.PriorityHigh)

	// Same width (same w/100 bias), same format, no resolution wishes: both
	// score identically, and only the height tells them apart.
	candidates := FromSlice([]Candidate{
		{640, 480, pixfmt.KnownFormat(pixfmt.YUYV)},
		{640, 720, pixfmt.KnownFormat(pixfmt.YUYV)},
	})

	got, err := Negotiate(cfg, candidates)
	if err != nil {
		t.Fatalf("Negotiate returned error: %v", err)
	}
	if got.Width != 640 || got.Height != 480 {
		t.Fatalf("got %+v, want 640x480 (first of two equal scores)", got)
	}
}

// TestFPSWishCarriedThrough checks the negotiated FPS comes from the
// config's fps wish, defaulting to 30 when absent.
func TestFPSWishCarriedThrough(t *testing.T) {
	candidates := FromSlice([]Candidate{{640, 480, pixfmt.KnownFormat(pixfmt.YUYV)}})

	cfg := camera.NewCameraConfig()
	got, err := Negotiate(cfg, candidates)
	if err != nil {
		t.Fatalf("Negotiate returned error: %v", err)
	}
	if got.FPS != defaultFPS {
		t.Fatalf("FPS = %d, want default %d", got.FPS, defaultFPS)
	}

	cfg2 := camera.NewCameraConfig().FPS(60, camera.PriorityHigh)
	got2, err := Negotiate(cfg2, candidates)
	if err != nil {
		t.Fatalf("Negotiate returned error: %v", err)
	}
	if got2.FPS != 60 {
		t.Fatalf("FPS = %d, want 60", got2.FPS)
	}
}
