package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
)

// Logging emits one request.complete line per request. The level follows
// the status: 5xx logs at error, 4xx at warn, everything else at info.
// Probe and scrape paths log at debug.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logg == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r.WithContext(ctx))

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			fields := map[string]any{
				"status":      rec.status,
				"bytes":       rec.bytes,
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if pattern := routePattern(r); pattern != r.URL.Path {
				fields["route"] = pattern
			}
			logg.Log(logg.WithFields(ctx, fields), requestLevel(r.URL.Path, rec.status), "request.complete")
		})
	}
}

var quietPaths = map[string]struct{}{
	"/health/live":  {},
	"/health/ready": {},
	"/metrics":      {},
}

func requestLevel(path string, status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	}
	if _, quiet := quietPaths[path]; quiet {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}
