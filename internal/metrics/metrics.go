package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the transcribe service
type Metrics struct {
	// Upload metrics
	UploadsReceived prometheus.Counter
	UploadsRejected prometheus.Counter
	UploadBytes     prometheus.Histogram

	// Transcription metrics
	TranscriptionSuccesses prometheus.Counter
	TranscriptionFailures  prometheus.Counter
	TranscriptionDuration  prometheus.Histogram

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers all metrics against the given registerer. Tests
// pass a fresh registry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		UploadsReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "transcribe_uploads_received_total",
			Help: "Total number of audio uploads received",
		}),
		UploadsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "transcribe_uploads_rejected_total",
			Help: "Total number of uploads rejected (missing file, too large)",
		}),
		UploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "transcribe_upload_bytes",
			Help:    "Size distribution of uploaded audio files",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		TranscriptionSuccesses: factory.NewCounter(prometheus.CounterOpts{
			Name: "transcribe_transcriptions_success_total",
			Help: "Total number of successful transcriptions",
		}),
		TranscriptionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "transcribe_transcriptions_failure_total",
			Help: "Total number of failed transcriptions",
		}),
		TranscriptionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "transcribe_transcription_duration_seconds",
			Help:    "Wall-clock time spent per transcription",
			Buckets: prometheus.DefBuckets,
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transcribe_http_requests_total",
			Help: "Total HTTP requests by path and status",
		}, []string{"path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "transcribe_http_request_duration_seconds",
			Help:    "HTTP request latency by path",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
	}
}
