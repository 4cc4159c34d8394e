package middleware

import (
	"net/http"
	"strconv"
	"time"

	"dancehub/internal/observability"
)

// Metrics records request counts and latency per route pattern.
// Requests that match no route are labelled "unmatched".
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		observability.HTTPRequests.WithLabelValues(route, strconv.Itoa(wrapped.status)).Inc()
		observability.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		switch wrapped.status {
		case http.StatusUnauthorized:
			observability.AuthRejections.WithLabelValues("401").Inc()
		case http.StatusForbidden:
			observability.AuthRejections.WithLabelValues("403").Inc()
		}
	})
}
