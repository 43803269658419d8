// Package camconfig loads named device profiles from YAML, the way the
// Sensor-Logger project's sensors.yaml loader does for its sensor set, and
// marshals a driver.SystemControl.ExportState snapshot to the JSON state
// spec.md §6 requires.
package camconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/octoglot/gocamcore/camera"
	"github.com/octoglot/gocamcore/pixfmt"
)

// ResolutionWish mirrors camera.ResolutionWish for YAML decoding; priority
// is named rather than numeric in the file.
type ResolutionWish struct {
	Width    uint32 `yaml:"width"`
	Height   uint32 `yaml:"height"`
	Priority string `yaml:"priority"`
}

// FormatWish mirrors camera.FormatWish for YAML decoding.
type FormatWish struct {
	Format   string `yaml:"format"`
	Priority string `yaml:"priority"`
}

// FPSWish mirrors camera.FPSWish for YAML decoding.
type FPSWish struct {
	FPS      uint32 `yaml:"fps"`
	Priority string `yaml:"priority"`
}

// Profile is one named device preset: a pre-negotiation wishlist plus the
// ring-buffer/stride tuning knobs, loadable from a profiles.yaml file.
type Profile struct {
	Name        string           `yaml:"name"`
	DevicePath  string           `yaml:"device_path"`
	Resolutions []ResolutionWish `yaml:"resolutions"`
	FPS         *FPSWish         `yaml:"fps"`
	Formats     []FormatWish     `yaml:"formats"`
	BufferCount int              `yaml:"buffer_count"`
	AlignStride int              `yaml:"align_stride"`
}

// ProfileFile is the top-level shape of a profiles.yaml document: a list
// of named profiles, e.g. "webcam-1080p-required" or "low-latency-vga".
type ProfileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadProfiles reads and parses a profiles.yaml file.
func LoadProfiles(path string) (*ProfileFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("camconfig: read profiles: %w", err)
	}
	var pf ProfileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("camconfig: parse profiles: %w", err)
	}
	return &pf, nil
}

// Find returns the named profile, or false if it isn't present.
func (pf *ProfileFile) Find(name string) (Profile, bool) {
	for _, p := range pf.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// priorities mirrors the named tiers a profile author writes in YAML onto
// camera.Priority's numeric scale.
var priorities = map[string]camera.Priority{
	"low":      camera.PriorityLow,
	"medium":   camera.PriorityMedium,
	"high":     camera.PriorityHigh,
	"required": camera.PriorityRequired,
}

func parsePriority(s string) camera.Priority {
	if p, ok := priorities[s]; ok {
		return p
	}
	return camera.PriorityMedium
}

// formatsByName maps the lowercase four-character codes a profile author
// writes (e.g. "yuyv", "mjpg") onto the pixfmt registry.
var formatsByName = map[string]pixfmt.FourCC{
	"yuyv": pixfmt.YUYV,
	"uyvy": pixfmt.UYVY,
	"nv12": pixfmt.NV12,
	"yv12": pixfmt.YV12,
	"bgr3": pixfmt.BGR3,
	"rgb3": pixfmt.RGB3,
	"rgba": pixfmt.RGBA,
	"mjpg": pixfmt.MJPEG,
	"h264": pixfmt.H264,
}

// Build turns the profile's wishlist into a camera.CameraConfig, the
// shape Driver.Open consumes.
func (p Profile) Build() camera.CameraConfig {
	cfg := camera.NewCameraConfig()
	for _, r := range p.Resolutions {
		cfg = cfg.Resolution(r.Width, r.Height, parsePriority(r.Priority))
	}
	if p.FPS != nil {
		cfg = cfg.FPS(p.FPS.FPS, parsePriority(p.FPS.Priority))
	}
	for _, f := range p.Formats {
		if cc, ok := formatsByName[f.Format]; ok {
			cfg = cfg.Format(pixfmt.KnownFormat(cc), parsePriority(f.Priority))
		}
	}
	if p.BufferCount > 0 {
		cfg = cfg.BufferCount(p.BufferCount)
	}
	if p.AlignStride > 0 {
		cfg = cfg.AlignStride(p.AlignStride)
	}
	return cfg
}

// ExportStateJSON marshals a driver.SystemControl.ExportState() snapshot
// to JSON, per spec.md §6's "persisted state ... JSON-marshaled" with the
// required "backend" key. Returns an error if state is missing that key,
// since that would indicate a backend bug rather than bad input.
func ExportStateJSON(state map[string]any) ([]byte, error) {
	if _, ok := state["backend"]; !ok {
		return nil, fmt.Errorf("camconfig: ExportState missing required \"backend\" key")
	}
	return json.MarshalIndent(state, "", "  ")
}
