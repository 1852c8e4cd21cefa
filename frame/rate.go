package frame

// rateWindowSize is the fixed sliding-window capacity the FPS estimate
// averages over.
const rateWindowSize = 1000

// VideoStats is a point-in-time snapshot of stream health, returned by
// RateMonitor.Sample for every frame. The pipeline copies its FPS and counts
// into the Frame it builds; VideoStats values themselves are not published
// on the FrameBus, which carries only frames.
type VideoStats struct {
	FPS           float64
	DroppedFrames uint64
	TotalFrames   uint64
	UTC           string
}

// RateMonitor estimates FPS and tracks dropped/total frame counts from the
// stream of (sequence, epoch_time_us) pairs reported by the capture device.
//
// Grounded on Asteria::AcquisitionThread::run
// (_examples/original_source/Asteria/infra/acquisitionthread.cpp lines
// 167-213): a 1000-sample ring of capture timestamps drives the FPS
// estimate, and the first two frames of a session are excluded because
// their sequence numbers/timestamps are unreliable immediately after stream
// activation.
type RateMonitor struct {
	times         *RingBuffer[int64]
	seen          int
	lastSequence  uint32
	haveLast      bool
	droppedFrames uint64
	totalFrames   uint64
}

// NewRateMonitor constructs a RateMonitor with the fixed window size above.
func NewRateMonitor() *RateMonitor {
	return &RateMonitor{times: NewRingBuffer[int64](rateWindowSize)}
}

// Sample folds in one frame's (sequence, epochTimeUs) pair and returns the
// VideoStats snapshot reflecting state after this frame was incorporated.
func (m *RateMonitor) Sample(sequence uint32, epochTimeUs int64) VideoStats {
	m.seen++

	if m.haveLast {
		// sequence - (lastSequence+1), clamped >= 0: gap in the driver's
		// sequence numbers since the previous sample.
		dropped := int64(sequence) - int64(m.lastSequence) - 1
		if dropped < 0 {
			dropped = 0
		}
		m.droppedFrames += uint64(dropped)
		m.totalFrames += uint64(int64(sequence) - int64(m.lastSequence))
	}
	m.lastSequence = sequence
	m.haveLast = true

	var fps float64
	// The first two frames of a session are discarded for monitoring: their
	// sequence numbers/timestamps are unreliable immediately after stream
	// activation.
	if m.seen > 2 {
		m.times.Push(epochTimeUs)
		if m.times.Len() >= 2 {
			window := m.times.Unroll()
			oldest := window[0]
			newest := window[len(window)-1]
			deltaSec := float64(newest-oldest) / 1e6
			if deltaSec > 0 {
				fps = float64(m.times.Len()-1) / deltaSec
			}
		}
	}

	return VideoStats{
		FPS:           fps,
		DroppedFrames: m.droppedFrames,
		TotalFrames:   m.totalFrames,
		UTC:           FormatUTC(epochTimeUs),
	}
}
