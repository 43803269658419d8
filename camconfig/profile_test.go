package camconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/octoglot/gocamcore/camera"
)

const sampleYAML = `
profiles:
  - name: webcam-1080p-required
    device_path: /dev/video0
    resolutions:
      - width: 1920
        height: 1080
        priority: required
    fps:
      fps: 30
      priority: high
    formats:
      - format: mjpg
        priority: required
    buffer_count: 4
    align_stride: 256

  - name: low-latency-vga
    device_path: /dev/video0
    resolutions:
      - width: 640
        height: 480
        priority: required
    formats:
      - format: yuyv
        priority: required
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func TestLoadProfilesAndFind(t *testing.T) {
	path := writeSample(t)
	pf, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("LoadProfiles: %v", err)
	}
	if len(pf.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(pf.Profiles))
	}

	p, ok := pf.Find("low-latency-vga")
	if !ok {
		t.Fatalf("expected to find low-latency-vga")
	}
	if p.Resolutions[0].Width != 640 {
		t.Fatalf("unexpected width %d", p.Resolutions[0].Width)
	}

	if _, ok := pf.Find("nonexistent"); ok {
		t.Fatalf("expected Find to fail for unknown profile")
	}
}

func TestProfileBuildProducesRequiredWishes(t *testing.T) {
	path := writeSample(t)
	pf, _ := LoadProfiles(path)
	p, _ := pf.Find("webcam-1080p-required")

	cfg := p.Build()
	if len(cfg.ResolutionWishes) != 1 {
		t.Fatalf("expected 1 resolution wish, got %d", len(cfg.ResolutionWishes))
	}
	if cfg.ResolutionWishes[0].Priority != camera.PriorityRequired {
		t.Fatalf("expected Required priority, got %v", cfg.ResolutionWishes[0].Priority)
	}
	if cfg.FPSWish == nil || cfg.FPSWish.FPS != 30 {
		t.Fatalf("expected fps wish of 30, got %#v", cfg.FPSWish)
	}
	if cfg.ResolvedBufferCount() != 4 {
		t.Fatalf("expected buffer count 4, got %d", cfg.ResolvedBufferCount())
	}
}

func TestExportStateJSONRequiresBackendKey(t *testing.T) {
	if _, err := ExportStateJSON(map[string]any{"device": "/dev/video0"}); err == nil {
		t.Fatalf("expected error for missing backend key")
	}

	out, err := ExportStateJSON(map[string]any{"backend": "v4l2", "gain": 12})
	if err != nil {
		t.Fatalf("ExportStateJSON: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("expected non-empty JSON output")
	}
}
