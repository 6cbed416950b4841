package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	SubmissionsGraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_submissions_graded_total",
			Help: "Quiz submissions that were scored and persisted",
		},
		[]string{"outcome"},
	)

	RegradesApplied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_regrades_applied_total",
			Help: "Manual point overrides applied by teachers",
		},
	)

	LockPolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_lock_polls_total",
			Help: "Lock-status polls answered, by result and cache state",
		},
		[]string{"locked", "cache"},
	)

	EventsReported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_events_reported_total",
			Help: "Anti-cheat events reported by student clients",
		},
		[]string{"status"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SubmissionsGraded)
	prometheus.MustRegister(RegradesApplied)
	prometheus.MustRegister(LockPolls)
	prometheus.MustRegister(EventsReported)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
