// Package detect implements pairwise pixel differencing between
// consecutive frames to decide whether the current frame constitutes a
// motion event.
//
// Grounded on the original C++ detector (_examples/original_source/Asteria/
// infra/detectorthread.cpp and MeteorCaptureQt's equivalent): a per-pixel
// absolute-difference count against a configured threshold, compared to a
// trigger count.
package detect

import "meteorcam/frame"

// Engine holds the two tunable detection thresholds: a per-pixel
// difference threshold T and a changed-pixel-count trigger threshold K.
type Engine struct {
	pixelThreshold byte
	triggerCount   int
}

// NewEngine constructs a detection Engine. pixelThreshold (T) is the
// per-pixel absolute grey difference that counts as "changed" (0-255);
// triggerCount (K) is the number of changed pixels that must be exceeded
// for the frame to be reported as an event.
func NewEngine(pixelThreshold byte, triggerCount int) *Engine {
	return &Engine{pixelThreshold: pixelThreshold, triggerCount: triggerCount}
}

// Detect compares current against prior and reports whether this frame is
// an event. With prior == nil the signal is always false. When current
// carries an Annotated buffer, every pixel counted as changed has its
// annotated entry overwritten with frame.EventIndicatorRGBA.
func (e *Engine) Detect(current, prior *frame.Frame) bool {
	if prior == nil {
		return false
	}

	changed := 0
	for p := 0; p < len(current.Raw); p++ {
		if absDiff(current.Raw[p], prior.Raw[p]) > e.pixelThreshold {
			changed++
			if current.Annotated != nil {
				current.Annotated[p] = frame.EventIndicatorRGBA
			}
		}
	}
	return changed > e.triggerCount
}

// absDiff computes |a-b| without signed overflow.
func absDiff(a, b byte) byte {
	if a > b {
		return a - b
	}
	return b - a
}
