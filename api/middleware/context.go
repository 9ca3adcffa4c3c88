package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/tillpoint-backend/api/responses"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
)

type contextKey string

const (
	ctxStoreID contextKey = "store_id"
	ctxTillID  contextKey = "till_id"

	storeIDParam = "storeID"
	tillIDHeader = "X-Till-Id"
)

func StoreIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxStoreID).(string); ok {
		return v
	}
	return ""
}

func TillIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxTillID).(string); ok {
		return v
	}
	return ""
}

// WithStoreID injects the store identifier into the context for downstream handlers.
func WithStoreID(ctx context.Context, storeID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStoreID, storeID)
}

// WithTillID injects the till identifier into the context.
func WithTillID(ctx context.Context, tillID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxTillID, tillID)
}

// StoreContext reads the {storeID} route parameter and the optional till
// header into the request context and the request logger.
func StoreContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			storeID := strings.TrimSpace(chi.URLParam(r, storeIDParam))
			if storeID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "store id is required"))
				return
			}

			ctx := WithStoreID(r.Context(), storeID)
			tillID := strings.TrimSpace(r.Header.Get(tillIDHeader))
			if tillID != "" {
				ctx = WithTillID(ctx, tillID)
			}
			if logg != nil {
				ctx = logg.WithTillID(logg.WithStoreID(ctx, storeID), tillID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
