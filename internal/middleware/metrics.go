package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/KretovDmitry/shortlinks/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// unmatchedRoute labels requests no route matched
// so raw paths never become label values.
const unmatchedRoute = "unmatched"

// Metrics records the number, duration and concurrency of requests
// labeled by the chi route pattern.
func Metrics(next http.Handler) http.Handler {
	f := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)
		endpoint := routePattern(r)

		metrics.HTTPRequestDuration.WithLabelValues(r.Method, endpoint, code).
			Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, endpoint, code).Inc()
	}
	return http.HandlerFunc(f)
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}
