package metrics

import (
	"net/http"
	"strings"
	"time"
)

// unmatchedRoute is the path label of requests no route matched
const unmatchedRoute = "unmatched"

// responseWriter records the status code written by the wrapped handler
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// HTTPMiddleware records request count, latency and in-flight requests,
// labelled by the ServeMux pattern that served them.
func HTTPMiddleware(reg *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reg.InFlightInc()
			defer reg.InFlightDec()

			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			reg.RecordRequest(r.Method, routeLabel(r, rw.statusCode), rw.statusCode, time.Since(start).Seconds())
		})
	}
}

// routeLabel returns the path part of the matched pattern. ServeMux sets
// r.Pattern on the request it was handed, so it is visible here after the
// handler returns.
func routeLabel(r *http.Request, status int) string {
	if r.Pattern != "" {
		_, path, found := strings.Cut(r.Pattern, " ")
		if !found {
			return r.Pattern
		}
		return path
	}
	if status == http.StatusNotFound || status == http.StatusMethodNotAllowed {
		return unmatchedRoute
	}
	return r.URL.Path
}
