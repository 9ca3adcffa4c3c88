package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS admits browser-based tills served from the listed origins. An empty
// list disables cross-origin access.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", idempotencyKeyHeader, tillIDHeader, requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, idempotentReplayHeader},
		MaxAge:         300,
	}).Handler
}
