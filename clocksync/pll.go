// Package clocksync implements the software phase-locked loop from
// spec.md §4.2: a sliding-window linear regression that maps jittered,
// drifting hardware timestamps onto a monotonic system clock.
//
// The driver's free-running hardware counter drifts relative to the host,
// and USB/DMA queueing adds tens of milliseconds of arrival jitter. Using
// now() as the frame time is accurate but jittery; using the raw hardware
// timestamp is smooth but misaligned and drifting. The regression below
// gives smooth, drift-corrected times.
package clocksync

import (
	"sync"
	"time"
)

// defaultWindow is the sample count spec.md §4.2 names as the default.
const defaultWindow = 30

// minRegressionSamples is the threshold below which Synchronizer falls
// back to the offset-only straight-through path.
const minRegressionSamples = 5

var (
	anchorOnce sync.Once
	anchor     time.Time
)

// processAnchor returns the process-wide monotonic reference, captured
// once at first use across every Synchronizer in the process (spec.md
// §4.2: "The anchor is a process-wide monotonic reference captured once
// at first use").
func processAnchor() time.Time {
	anchorOnce.Do(func() {
		anchor = time.Now()
	})
	return anchor
}

type sample struct {
	hwNs    uint64
	arrival time.Time
}

// Synchronizer is a single device's PLL state. It is not safe for
// concurrent use by multiple goroutines; each Stream owns one, matching
// spec.md §4.2's "The PLL is stateless across devices; each Stream owns
// one."
type Synchronizer struct {
	window  int
	history []sample // ring, oldest first, len <= window

	slope  float64
	offset float64
}

// New creates a Synchronizer with the given window size, clamped to at
// least 2 samples (two points are needed to determine a line).
func New(window int) *Synchronizer {
	if window < 2 {
		window = 2
	}
	return &Synchronizer{
		window:  window,
		history: make([]sample, 0, window),
		slope:   1.0,
		offset:  0.0,
	}
}

// NewDefault creates a Synchronizer with spec.md's default window of 30.
func NewDefault() *Synchronizer {
	return New(defaultWindow)
}

// Correct feeds one (hwNs, arrival) sample and returns the corrected
// duration since process start, per the algorithm in spec.md §4.2.
func (s *Synchronizer) Correct(hwNs uint64, arrival time.Time) time.Duration {
	if len(s.history) >= s.window {
		s.history = s.history[1:]
	}
	s.history = append(s.history, sample{hwNs: hwNs, arrival: arrival})

	if len(s.history) < minRegressionSamples {
		// Degrade gracefully: offset-only, zero-drift-assumed straight
		// through (slope=1, offset=0 in the general formula below),
		// anchored to the first sample in the window. This stays entirely
		// in the hw-ns domain — it never mixes a wall-clock elapsed() call
		// against a raw hw-ns delta the way the source's buggy fallback
		// did (spec.md §9's documented fix).
		first := s.history[0]
		elapsedHW := hwNs - first.hwNs // hwNs is monotonically increasing
		base := first.arrival.Sub(processAnchor())
		return base + time.Duration(elapsedHW)
	}

	s.recalculate()

	first := s.history[0]
	dx := float64(hwNs) - float64(first.hwNs)
	predictedDyNs := s.slope*dx + s.offset

	baseSys := first.arrival.Sub(processAnchor())
	return baseSys + time.Duration(predictedDyNs)
}

// recalculate runs the ordinary-least-squares regression over the current
// window: x = hwNs - hwNs[0], y = elapsed(arrival) - elapsed(arrival[0]),
// both in nanoseconds.
func (s *Synchronizer) recalculate() {
	n := float64(len(s.history))
	first := s.history[0]
	baseSysNs := float64(first.arrival.Sub(processAnchor()))

	var sumX, sumY, sumXY, sumXX float64
	for _, pt := range s.history {
		x := float64(pt.hwNs) - float64(first.hwNs)
		y := float64(pt.arrival.Sub(processAnchor())) - baseSysNs

		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom < 1e-6 && denom > -1e-6 {
		s.slope = 1.0
		s.offset = 0.0
		return
	}
	s.slope = (n*sumXY - sumX*sumY) / denom
	s.offset = (sumY*sumXX - sumX*sumXY) / denom
}
