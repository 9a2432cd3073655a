package middleware

import (
	"net/http"
	"strconv"
	"time"

	"hitcounter/pkg/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics records request counts and latency. Paths outside routes are
// folded into one label value to keep cardinality bounded.
func Metrics(routes ...string) func(http.Handler) http.Handler {
	known := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		known[route] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			route := r.URL.Path
			if _, ok := known[route]; !ok {
				route = unmatchedRoute
			}
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
