package camera

import "github.com/octoglot/gocamcore/pixfmt"

// Priority orders how badly a CameraConfig wishes for a given resolution,
// fps, or format. Required MUST be satisfied or negotiation fails; lower
// tiers contribute additively to the negotiator's score (spec.md §3).
type Priority int

const (
	PriorityLow      Priority = 0
	PriorityMedium   Priority = 50
	PriorityHigh     Priority = 100
	PriorityRequired Priority = 255
)

// ResolutionWish is one entry in CameraConfig's ordered resolution wishlist.
type ResolutionWish struct {
	Width, Height uint32
	Priority      Priority
}

// FormatWish is one entry in CameraConfig's ordered format wishlist.
type FormatWish struct {
	Format   pixfmt.PixelFormat
	Priority Priority
}

// FPSWish is CameraConfig's single optional fps preference.
type FPSWish struct {
	FPS      uint32
	Priority Priority
}

// CameraConfig is the builder-populated record consumed once by
// Driver.Open, per spec.md §3/§6. bufferCount/alignStride stay unexported
// since BufferCount/AlignStride already name the builder methods below;
// ResolvedBufferCount/ResolvedAlignStride are the read side.
type CameraConfig struct {
	ResolutionWishes []ResolutionWish
	FPSWish          *FPSWish
	FormatWishes     []FormatWish
	bufferCount      int
	alignStride      int // bytes; 0 means "use the default below"
}

const (
	defaultBufferCount = 3
	defaultAlignStride = 256
)

// NewCameraConfig returns a CameraConfig with the documented defaults:
// a 3-deep ring buffer and 256-byte stride alignment for SIMD.
func NewCameraConfig() CameraConfig {
	return CameraConfig{
		bufferCount: defaultBufferCount,
		alignStride: defaultAlignStride,
	}
}

// Resolution appends a (width, height, priority) wish. Order is
// significant: the negotiator's resolution_exact score uses the first
// matching entry, and resolution_distance scans all entries for the
// closest one.
func (c CameraConfig) Resolution(w, h uint32, p Priority) CameraConfig {
	c.ResolutionWishes = append(c.ResolutionWishes, ResolutionWish{w, h, p})
	return c
}

// FPS sets the single fps preference, replacing any previous call (spec.md
// §6: ".fps(n, Priority) -- set (unique)").
func (c CameraConfig) FPS(fps uint32, p Priority) CameraConfig {
	w := FPSWish{fps, p}
	c.FPSWish = &w
	return c
}

// Format appends a (PixelFormat, priority) wish.
func (c CameraConfig) Format(f pixfmt.PixelFormat, p Priority) CameraConfig {
	c.FormatWishes = append(c.FormatWishes, FormatWish{f, p})
	return c
}

// BufferCount sets the ring-buffer depth, default 3.
func (c CameraConfig) BufferCount(n int) CameraConfig {
	c.bufferCount = n
	return c
}

// AlignStride sets the forced stride alignment, default 256 bytes.
func (c CameraConfig) AlignStride(bytes int) CameraConfig {
	c.alignStride = bytes
	return c
}

// resolvedBufferCount/resolvedAlignStride apply the documented defaults
// when the config was constructed as a zero value rather than via
// NewCameraConfig (Go has no constructor enforcement).
func (c CameraConfig) resolvedBufferCount() int {
	if c.bufferCount <= 0 {
		return defaultBufferCount
	}
	return c.bufferCount
}

func (c CameraConfig) resolvedAlignStride() int {
	if c.alignStride <= 0 {
		return defaultAlignStride
	}
	return c.alignStride
}

// ResolvedBufferCount exposes resolvedBufferCount to other packages
// (e.g. backend/v4l2) without letting them reach into unexported state.
func (c CameraConfig) ResolvedBufferCount() int { return c.resolvedBufferCount() }

// ResolvedAlignStride exposes resolvedAlignStride to other packages.
func (c CameraConfig) ResolvedAlignStride() int { return c.resolvedAlignStride() }
