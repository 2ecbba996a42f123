package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// LoggingMiddleware logs one line per request. The routed pattern and the
// model id are resolved after the handler runs, so governance traffic can be
// grepped per model without parsing raw paths.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		route := r.URL.Path
		modelID := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
			modelID = rctx.URLParam("model_id")
		}

		line := "method=%s route=%s status=%d duration=%s bytes=%d ip=%s"
		args := []any{
			r.Method, route, wrapped.statusCode,
			time.Since(start), wrapped.written, r.RemoteAddr,
		}
		if modelID != "" {
			line += " model_id=%s"
			args = append(args, modelID)
		}
		log.Printf(line, args...)
	})
}
