// Package negotiate implements the format negotiator from spec.md §4.3: it
// scores each hardware-advertised (width, height, format) tuple against a
// prioritized CameraConfig and selects the maximum.
package negotiate

import (
	"github.com/octoglot/gocamcore/camera"
	"github.com/octoglot/gocamcore/pixfmt"
)

// Candidates is the "finite iterator of (width, height, PixelFormat) tuples
// advertised by the device" from spec.md §4.3, expressed as a push-style
// iterator function so callers don't have to materialize a slice just to
// negotiate against it. Its yield takes three values, so it is called
// directly with a yield func; it cannot be used in a for-range statement.
type Candidates func(yield func(w, h uint32, f pixfmt.PixelFormat) bool)

// FromSlice adapts a materialized slice of candidates into a Candidates
// iterator, for backends and tests that already have one.
func FromSlice(tuples []Candidate) Candidates {
	return func(yield func(w, h uint32, f pixfmt.PixelFormat) bool) {
		for _, t := range tuples {
			if !yield(t.Width, t.Height, t.Format) {
				return
			}
		}
	}
}

// Candidate is one advertised (width, height, format) tuple.
type Candidate struct {
	Width, Height uint32
	Format        pixfmt.PixelFormat
}

const defaultFPS = 30

// Negotiate scores every candidate against cfg and returns the
// highest-scoring NegotiatedFormat, or camera.ErrFormatNotSupported if the
// candidate set is empty or no candidate satisfies every Required wish.
func Negotiate(cfg camera.CameraConfig, candidates Candidates) (camera.NegotiatedFormat, error) {
	requiredRes, requiredFmt := requiredWishes(cfg)

	bestScore := 0
	haveBest := false
	var best camera.NegotiatedFormat

	candidates(func(w, h uint32, f pixfmt.PixelFormat) bool {
		if !satisfiesRequired(w, h, f, requiredRes, requiredFmt) {
			return true // keep scanning
		}
		score := scoreCandidate(cfg, w, h, f)
		if !haveBest || score > bestScore {
			bestScore = score
			haveBest = true
			best = camera.NegotiatedFormat{
				Width:  w,
				Height: h,
				Format: f,
				FPS:    resolvedFPS(cfg),
			}
		}
		return true
	})

	if !haveBest {
		return camera.NegotiatedFormat{}, camera.ErrFormatNotSupported
	}
	return best, nil
}

func resolvedFPS(cfg camera.CameraConfig) uint32 {
	if cfg.FPSWish != nil {
		return cfg.FPSWish.FPS
	}
	return defaultFPS
}

type resPair struct{ w, h uint32 }

// requiredWishes collects the subset of resolution/format wishes marked
// Priority == Required. A candidate must satisfy every required dimension
// that has at least one entry (spec.md §4.3: "Required priority ... MUST
// be satisfied or negotiation fails").
func requiredWishes(cfg camera.CameraConfig) (res []resPair, fmts []pixfmt.PixelFormat) {
	for _, rw := range cfg.ResolutionWishes {
		if rw.Priority == camera.PriorityRequired {
			res = append(res, resPair{rw.Width, rw.Height})
		}
	}
	for _, fw := range cfg.FormatWishes {
		if fw.Priority == camera.PriorityRequired {
			fmts = append(fmts, fw.Format)
		}
	}
	return
}

func satisfiesRequired(w, h uint32, f pixfmt.PixelFormat, requiredRes []resPair, requiredFmt []pixfmt.PixelFormat) bool {
	if len(requiredRes) > 0 {
		ok := false
		for _, r := range requiredRes {
			if r.w == w && r.h == h {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(requiredFmt) > 0 {
		ok := false
		for _, code := range requiredFmt {
			if f.Code == code.Code {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// scoreCandidate implements the scoring formula from spec.md §4.3 exactly,
// grounded on original_source/rustcv-backend-v4l2/src/device.rs's
// calculate_score.
func scoreCandidate(cfg camera.CameraConfig, w, h uint32, f pixfmt.PixelFormat) int {
	resExact := 0
	for _, rw := range cfg.ResolutionWishes {
		if rw.Width == w && rw.Height == h {
			resExact = int(rw.Priority) * 10
			break
		}
	}

	fmtExact := 0
	for _, fw := range cfg.FormatWishes {
		if fw.Format.Code == f.Code {
			fmtExact = int(fw.Priority) * 10
			break
		}
	}

	resDist := 0
	if resExact == 0 {
		if len(cfg.ResolutionWishes) == 0 {
			resDist = -1000
		} else {
			best := minInt
			for _, rw := range cfg.ResolutionWishes {
				d := -(absInt(int(w)-int(rw.Width)) + absInt(int(h)-int(rw.Height)))
				if d > best {
					best = d
				}
			}
			resDist = best
		}
	}

	bias := int(w) / 100

	return resExact + fmtExact + resDist + bias
}

const minInt = -1 << 31

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
