package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/tillpoint-backend/api/controllers"
	"github.com/angelmondragon/tillpoint-backend/api/middleware"
	"github.com/angelmondragon/tillpoint-backend/internal/checkout"
	"github.com/angelmondragon/tillpoint-backend/internal/promotions"
	"github.com/angelmondragon/tillpoint-backend/pkg/config"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/tillpoint-backend/pkg/redis"
)

// Dependencies groups what the router needs from cmd/api.
type Dependencies struct {
	Checkout    checkout.Service
	Promotions  promotions.Service
	Idempotency pkgredis.IdempotencyStore
	Readiness   map[string]controllers.Pinger
	Gatherer    prometheus.Gatherer
	Location    *time.Location
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.CORS(cfg.App.CORSAllowedOrigins),
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	idempotent := middleware.Idempotency(deps.Idempotency, cfg.Checkout.IdempotencyTTL, logg)

	r.Route("/api/v1/stores/{storeID}", func(r chi.Router) {
		r.Use(middleware.StoreContext(logg))

		r.Get("/specials", controllers.SpecialsList(deps.Promotions, deps.Location, logg))
		r.Post("/quotes", controllers.CheckoutQuote(deps.Checkout, logg))
		r.Post("/vouchers/validate", controllers.VoucherValidate(deps.Checkout, logg))
		r.With(idempotent).Post("/sales", controllers.SaleCreate(deps.Checkout, logg))
		r.Get("/sales/{orderNumber}", controllers.SaleFetch(deps.Checkout, logg))
	})

	return r
}
