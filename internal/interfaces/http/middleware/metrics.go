package middleware

import (
	"net/http"
	"time"

	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/prometheus"
)

// Metrics returns middleware that records request counters and latency
// histograms per method and path.
func Metrics(metrics *prometheus.AppMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newWrappedResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			prometheus.RecordHTTPRequest(metrics, r.Method, r.URL.Path,
				wrapped.statusCode, time.Since(start), r.ContentLength, wrapped.bytesWritten)
		})
	}
}

//Personal.AI order the ending
