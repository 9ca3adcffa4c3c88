package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/tillpoint-backend/api/responses"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
)

// Recoverer turns a handler panic into an INTERNAL_ERROR envelope. A panic
// after the sale handler wrote its response leaves that response untouched.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				err := fmt.Errorf("panic: %v", recovered)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"panic": fmt.Sprint(recovered),
						"route": routePattern(r),
					})
				}
				if rec.status != 0 {
					if logg != nil {
						logg.Error(ctx, "panic.after_response", err)
					}
					return
				}
				responses.WriteError(ctx, logg, rec, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
