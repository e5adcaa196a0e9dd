package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memstream",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "memstream",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	codecOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memstream",
			Subsystem: "codec",
			Name:      "operations_total",
			Help:      "Tagged value encodes and decodes.",
		},
		[]string{"op", "tag", "success"},
	)
	codecBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memstream",
			Subsystem: "codec",
			Name:      "bytes_total",
			Help:      "Bytes written by encodes and consumed by decodes.",
		},
		[]string{"op", "tag"},
	)
	frameOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memstream",
			Subsystem: "framing",
			Name:      "frames_total",
			Help:      "Buffers framed into or reconstructed from a host buffer.",
		},
		[]string{"op", "success"},
	)
	frameSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "memstream",
			Subsystem: "framing",
			Name:      "frame_bytes",
			Help:      "Encoded frame size in bytes.",
			Buckets:   prometheus.ExponentialBuckets(4, 4, 10),
		},
		[]string{"op"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, codecOps, codecBytes, frameOps, frameSize)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordCodec(op, tag string, bytes int, err error) {
	RegisterMetrics()
	codecOps.WithLabelValues(op, tag, strconv.FormatBool(err == nil)).Inc()
	if err == nil && bytes > 0 {
		codecBytes.WithLabelValues(op, tag).Add(float64(bytes))
	}
}

func RecordFrame(op string, bytes int, err error) {
	RegisterMetrics()
	frameOps.WithLabelValues(op, strconv.FormatBool(err == nil)).Inc()
	if err == nil {
		frameSize.WithLabelValues(op).Observe(float64(bytes))
	}
}

// CodecMetrics feeds codec and framing observations into the collectors above.
type CodecMetrics struct{}

func (CodecMetrics) ObserveEncode(tag string, bytes int, err error) {
	RecordCodec("encode", tag, bytes, err)
}

func (CodecMetrics) ObserveDecode(tag string, bytes int, err error) {
	RecordCodec("decode", tag, bytes, err)
}

func (CodecMetrics) ObserveFrame(op string, bytes int, err error) {
	RecordFrame(op, bytes, err)
}
