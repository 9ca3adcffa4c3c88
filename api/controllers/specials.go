package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/tillpoint-backend/api/responses"
	"github.com/angelmondragon/tillpoint-backend/internal/promotions"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
)

// SpecialsList returns the specials valid today in the business time zone,
// optionally for another day via ?date=YYYY-MM-DD.
func SpecialsList(svc promotions.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	if loc == nil {
		loc = time.UTC
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
			return
		}

		today := time.Now().In(loc)
		if raw := r.URL.Query().Get("date"); raw != "" {
			parsed, err := time.ParseInLocation(time.DateOnly, raw, loc)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "date must be formatted as YYYY-MM-DD").
					WithDetails(map[string]any{"field": "date"}))
				return
			}
			today = parsed
		}

		rules, err := svc.ActiveRules(r.Context(), today)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]promotions.RuleView, 0, len(rules))
		for _, rule := range rules {
			views = append(views, rule.View())
		}
		responses.WriteSuccess(w, views)
	}
}
