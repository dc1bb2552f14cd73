package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/KretovDmitry/shortlinks/internal/logger"
)

// Recover turns a handler panic into a 500 response and an error log entry.
func Recover(log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.With(r.Context(), "trace", string(debug.Stack())).
						Errorf("handler panic: %v", rec)
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(f)
	}
}
