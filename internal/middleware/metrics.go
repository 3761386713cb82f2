package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	histogramRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "expense_sharing",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "path", "status"},
	)

	counterRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "expense_sharing",
			Subsystem: "http",
			Name:      "requests_total",
		},
		[]string{"method", "path", "status"},
	)
)

// Metrics records a duration histogram and request counter per route.
// The registered route pattern is used as the path label to keep cardinality
// bounded; unmatched requests fall back to the raw path.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		path := r.Pattern
		if path == "" {
			path = r.URL.Path
		}
		status := strconv.Itoa(recorder.status)
		histogramRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		counterRequests.WithLabelValues(r.Method, path, status).Inc()
	})
}
