// Package metrics instruments the pipeline with Prometheus collectors for
// the operator-monitored error/health signals: dropped frames, decode
// failures, FrameBus mailbox overflow, and AnalysisSink queue depth, plus
// FPS and clip counts.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector this module exports. Construct with New
// and pass it through to the packages that report into it.
type Registry struct {
	reg *prometheus.Registry

	FPS            prometheus.Gauge
	DroppedFrames  prometheus.Counter
	TotalFrames    prometheus.Counter
	DecodeFailures prometheus.Counter
	MailboxDrops   prometheus.Counter
	ClipsRecorded  prometheus.Counter
	AnalysisQueue  prometheus.Gauge
}

// New constructs a Registry with every collector registered.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		FPS: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "meteorcam",
			Name:      "fps",
			Help:      "Current sliding-window frames-per-second estimate.",
		}),
		DroppedFrames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "meteorcam",
			Name:      "dropped_frames_total",
			Help:      "Cumulative driver-reported dropped frames.",
		}),
		TotalFrames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "meteorcam",
			Name:      "frames_total",
			Help:      "Cumulative frames accounted for by the rate monitor.",
		}),
		DecodeFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "meteorcam",
			Name:      "decode_failures_total",
			Help:      "Frames skipped due to a pixel decode failure.",
		}),
		MailboxDrops: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "meteorcam",
			Name:      "frame_bus_mailbox_drops_total",
			Help:      "Frames dropped from a slow FrameBus observer's mailbox.",
		}),
		ClipsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "meteorcam",
			Name:      "clips_recorded_total",
			Help:      "Clips finalized by the state machine and submitted to the analysis sink.",
		}),
		AnalysisQueue: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "meteorcam",
			Name:      "analysis_queue_depth",
			Help:      "Submissions waiting for a free AnalysisSink worker.",
		}),
	}
}

// Handler returns the http.Handler to mount at the configured metrics_addr.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
