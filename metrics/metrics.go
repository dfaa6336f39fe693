// Package metrics exposes frame pipeline counters through a private
// Prometheus registry. A nil *Metrics is valid everywhere and counts
// nothing, so instrumentation stays optional.
package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the camera stream pipeline counters.
type Metrics struct {
	// Frame outcome counters.
	FramesResolved  atomic.Uint64
	FramesPublished atomic.Uint64

	// Skip reasons.
	SkippedNoInput   atomic.Uint64
	SkippedMalformed atomic.Uint64
	SkippedSync      atomic.Uint64
	SkippedTransform atomic.Uint64
	SkippedEncoding  atomic.Uint64

	// Output side.
	SinkDropped atomic.Uint64
	SinkErrors  atomic.Uint64

	registry *prometheus.Registry
}

// New creates a Metrics instance with its collectors registered on a
// private registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.registerCollectors()
	return m
}

func (m *Metrics) registerCollectors() {
	counters := []struct {
		name string
		help string
		load func() uint64
	}{
		{"camera_stream_frames_resolved_total", "Frames for which a projection was resolved and applied", m.FramesResolved.Load},
		{"camera_stream_frames_published_total", "Rendered frames handed to the output sink", m.FramesPublished.Load},
		{"camera_stream_frames_skipped_noinput_total", "Ticks skipped because camera info or image was missing", m.SkippedNoInput.Load},
		{"camera_stream_frames_skipped_malformed_total", "Frames skipped due to malformed or invalid intrinsics", m.SkippedMalformed.Load},
		{"camera_stream_frames_skipped_sync_total", "Frames skipped by exact-sync timestamp mismatch", m.SkippedSync.Load},
		{"camera_stream_frames_skipped_transform_total", "Frames skipped because the pose was not resolvable", m.SkippedTransform.Load},
		{"camera_stream_frames_skipped_encoding_total", "Frames skipped due to unsupported image encoding", m.SkippedEncoding.Load},
		{"camera_stream_sink_dropped_total", "Frames dropped by a lagging output sink", m.SinkDropped.Load},
		{"camera_stream_sink_errors_total", "Output sink write errors", m.SinkErrors.Load},
	}

	for _, c := range counters {
		load := c.load
		m.registry.MustRegister(prometheus.NewCounterFunc(
			prometheus.CounterOpts{Name: c.name, Help: c.help},
			func() float64 { return float64(load()) },
		))
	}
}

// Handler returns an HTTP handler serving the registry in Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncResolved bumps the resolved-frame counter. Nil-safe.
func (m *Metrics) IncResolved() {
	if m != nil {
		m.FramesResolved.Add(1)
	}
}

// IncPublished bumps the published-frame counter. Nil-safe.
func (m *Metrics) IncPublished() {
	if m != nil {
		m.FramesPublished.Add(1)
	}
}

// IncSkippedNoInput bumps the missing-input skip counter. Nil-safe.
func (m *Metrics) IncSkippedNoInput() {
	if m != nil {
		m.SkippedNoInput.Add(1)
	}
}

// IncSkippedMalformed bumps the malformed-intrinsics skip counter. Nil-safe.
func (m *Metrics) IncSkippedMalformed() {
	if m != nil {
		m.SkippedMalformed.Add(1)
	}
}

// IncSkippedSync bumps the sync-mismatch skip counter. Nil-safe.
func (m *Metrics) IncSkippedSync() {
	if m != nil {
		m.SkippedSync.Add(1)
	}
}

// IncSkippedTransform bumps the unresolvable-pose skip counter. Nil-safe.
func (m *Metrics) IncSkippedTransform() {
	if m != nil {
		m.SkippedTransform.Add(1)
	}
}

// IncSkippedEncoding bumps the unsupported-encoding skip counter. Nil-safe.
func (m *Metrics) IncSkippedEncoding() {
	if m != nil {
		m.SkippedEncoding.Add(1)
	}
}

// IncSinkDropped bumps the sink-drop counter. Nil-safe.
func (m *Metrics) IncSinkDropped() {
	if m != nil {
		m.SinkDropped.Add(1)
	}
}

// IncSinkErrors bumps the sink-error counter. Nil-safe.
func (m *Metrics) IncSinkErrors() {
	if m != nil {
		m.SinkErrors.Add(1)
	}
}
