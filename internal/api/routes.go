package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neurotrain/transcribe/internal/ai"
	"github.com/neurotrain/transcribe/internal/metrics"
	"github.com/neurotrain/transcribe/internal/storage"
)

const version = "1.0.0"

// Server wires the transcription engine, the upload store and the metrics
// registry into the HTTP API.
type Server struct {
	engine  ai.Engine
	store   *storage.Store
	metrics *metrics.Metrics
	reg     *prometheus.Registry
}

// NewServer creates a Server with its own metrics registry
func NewServer(engine ai.Engine, store *storage.Store) *Server {
	reg := prometheus.NewRegistry()
	return &Server{
		engine:  engine,
		store:   store,
		metrics: metrics.New(reg),
		reg:     reg,
	}
}

// RegisterRoutes registers all API routes on the gin engine
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.Use(s.metricsMiddleware())

	// Health check
	r.GET("/", s.healthCheck)
	r.GET("/health", s.healthCheck)

	// Core transcription endpoint
	r.POST("/transcribe", s.transcribe)

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})))

	// API v1: upload / process lifecycle
	v1 := r.Group("/api/v1")
	{
		v1.POST("/recordings", s.uploadRecording)
		v1.POST("/process/:recording_id", s.processRecording)
		v1.GET("/recordings/:recording_id", s.getRecording)
		v1.GET("/recordings/:recording_id/status", s.getRecordingStatus)
	}
}

// metricsMiddleware records per-request counters and latency
func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		s.metrics.HTTPRequests.WithLabelValues(path, statusLabel(c.Writer.Status())).Inc()
		s.metrics.HTTPRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
