// Package pipeline implements the AcquisitionPipeline: the single-thread
// orchestrator that drives capture, decoding, rate monitoring, detection
// and the state machine in lockstep, publishing to the FrameBus and handing
// finished clips off to the AnalysisSink without ever blocking on it.
//
// Grounded on Asteria::AcquisitionThread::run's overall loop shape
// (_examples/original_source/Asteria/infra/acquisitionthread.cpp) combined
// with go4vl/device.Device.startStreamLoop's queue/dequeue/re-queue
// structure (_examples/vladimirvivien-go4vl/device/device.go) and
// lkumar3-iitr-Sensor-Logger's controller goroutine/WaitGroup cancellation
// pattern (_examples/lkumar3-iitr-Sensor-Logger/controller/recording_controller.go).
package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"meteorcam/analysis"
	"meteorcam/capture"
	"meteorcam/decode"
	"meteorcam/detect"
	"meteorcam/frame"
	"meteorcam/logging"
	"meteorcam/metrics"
	"meteorcam/statemachine"
)

// Config bundles the tunables an AcquisitionPipeline needs that are not
// already owned by the capture.Source or decode.PixelDecoder it is handed.
type Config struct {
	Width, Height int
	Headless      bool

	// EpochOffsetUs converts a device-clock capture timestamp (normally
	// CLOCK_MONOTONIC uptime) into epoch microseconds:
	// epoch_time_us = uptime_us + EpochOffsetUs.
	EpochOffsetUs int64
}

// Pipeline owns one capture session end to end. Construct with New.
type Pipeline struct {
	source  *capture.Source
	decoder decode.PixelDecoder
	rate    *frame.RateMonitor
	engine  *detect.Engine
	machine *statemachine.Machine
	bus     *frame.FrameBus
	sink    analysis.Sink
	log     *logging.Logger
	metrics *metrics.Registry

	cfg Config

	clipSeq   int64
	prevFrame *frame.Frame

	prevDroppedFrames uint64
	prevTotalFrames   uint64
}

// New constructs a Pipeline from its already-configured collaborators. The
// caller is responsible for having already called source.Start(). reg may
// be nil, in which case no Prometheus collectors are updated.
func New(
	source *capture.Source,
	decoder decode.PixelDecoder,
	rate *frame.RateMonitor,
	engine *detect.Engine,
	machine *statemachine.Machine,
	bus *frame.FrameBus,
	sink analysis.Sink,
	log *logging.Logger,
	reg *metrics.Registry,
	cfg Config,
) *Pipeline {
	return &Pipeline{
		source:  source,
		decoder: decoder,
		rate:    rate,
		engine:  engine,
		machine: machine,
		bus:     bus,
		sink:    sink,
		log:     log,
		metrics: reg,
		cfg:     cfg,
	}
}

// Run drives the capture loop until ctx is cancelled or a fatal error
// occurs reading from the device. The capture thread blocks only inside
// Source.NextBuffer; a cancel is observed at the top of the next iteration.
func (p *Pipeline) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		borrowed, err := p.source.NextBuffer()
		if err != nil {
			return fmt.Errorf("pipeline: fatal read failure: %w", err)
		}

		f, ok := p.decodeFrame(borrowed.Bytes(), borrowed.Sequence(), borrowed.EpochTimeUs())
		if relErr := borrowed.Release(); relErr != nil {
			p.log.Error().Err(relErr).Msg("release buffer")
		}
		if !ok {
			// Decode failed: log and skip. The previous frame remains the
			// detection reference; RateMonitor does not advance for this
			// sequence.
			continue
		}

		// Detect may write event pixels into f.Annotated, so it runs before
		// the frame is shared with any observer.
		event := p.engine.Detect(f, p.prevFrame)
		p.prevFrame = f

		p.bus.Publish(f)

		clip := p.machine.Step(f, event, p.nextClipID)
		if clip != nil {
			p.submitClip(clip)
		}
	}
}

func (p *Pipeline) decodeFrame(src []byte, sequence uint32, deviceEpochTimeUs int64) (*frame.Frame, bool) {
	raw, err := p.decoder.Decode(src)
	if err != nil {
		p.log.Warn().Err(err).Msg("decode failed, skipping frame")
		if p.metrics != nil {
			p.metrics.DecodeFailures.Inc()
		}
		return nil, false
	}

	// Copy raw out: the decoder reuses its output buffer on the next call,
	// and this Frame may be retained by the head ring / an in-progress
	// clip / FrameBus observers well beyond this iteration.
	owned := make([]byte, len(raw))
	copy(owned, raw)

	epochTimeUs := deviceEpochTimeUs + p.cfg.EpochOffsetUs
	stats := p.rate.Sample(sequence, epochTimeUs)

	if p.metrics != nil {
		p.metrics.FPS.Set(stats.FPS)
		p.metrics.DroppedFrames.Add(float64(stats.DroppedFrames - p.prevDroppedFrames))
		p.metrics.TotalFrames.Add(float64(stats.TotalFrames - p.prevTotalFrames))
		p.prevDroppedFrames = stats.DroppedFrames
		p.prevTotalFrames = stats.TotalFrames
	}

	f := &frame.Frame{
		Width:              p.cfg.Width,
		Height:             p.cfg.Height,
		Raw:                owned,
		EpochTimeUs:        epochTimeUs,
		Sequence:           sequence,
		FPS:                stats.FPS,
		DroppedFramesTotal: stats.DroppedFrames,
		TotalFrames:        stats.TotalFrames,
	}

	if !p.cfg.Headless {
		annotated := make([]uint32, len(owned))
		for i, g := range owned {
			annotated[i] = frame.AnnotatedGreyRGBA(g)
		}
		f.Annotated = annotated
	}

	return f, true
}

func (p *Pipeline) submitClip(clip *statemachine.Clip) {
	future := p.sink.Submit(clip)
	if p.metrics != nil {
		p.metrics.AnalysisQueue.Set(float64(p.sink.QueueDepth()))
	}
	go func() {
		if id, ok := <-future; ok {
			p.log.Info().Str("clip_id", id).Int("frames", len(clip.Frames)).Msg("acquired_clip")
			if p.metrics != nil {
				p.metrics.ClipsRecorded.Inc()
				p.metrics.AnalysisQueue.Set(float64(p.sink.QueueDepth()))
			}
		}
	}()
}

// nextClipID assigns a monotonically increasing, collision-free clip
// identifier: clip-<unix nanos>-<sequence>.
func (p *Pipeline) nextClipID() string {
	seq := atomic.AddInt64(&p.clipSeq, 1)
	return fmt.Sprintf("clip-%d-%d", time.Now().UnixNano(), seq)
}
