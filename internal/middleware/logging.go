package middleware

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// statusRecorder remembers what a handler answered.
type statusRecorder struct {
	http.ResponseWriter
	status   int
	bytes    int
	upgraded bool
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(p []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(p)
	rec.bytes += n
	return n, err
}

// Hijack is needed by the websocket upgrader.
func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("%T cannot be hijacked", rec.ResponseWriter)
	}
	rec.upgraded = true
	return hj.Hijack()
}

// Logging writes one line per request once it has been served.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)

			attrs := []any{
				slog.Int("status", rec.status),
				slog.Int("bytes", rec.bytes),
				slog.String("query", r.URL.RawQuery),
				slog.String("remote_addr", r.RemoteAddr),
				slog.Duration("took", time.Since(start)),
			}
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				attrs = append(attrs, slog.String("xff", xff))
			}
			if rec.upgraded {
				attrs = append(attrs, slog.Bool("upgraded", true))
			}
			logger.Info(r.Method+" "+r.URL.Path, attrs...)
		})
	}
}
