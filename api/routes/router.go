package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront/api/controllers"
	storefrontcontrollers "github.com/angelmondragon/storefront/api/controllers/storefront"
	"github.com/angelmondragon/storefront/api/middleware"
	storefrontsvc "github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/redis"
)

const pageTitle = "Bag Boutique"

// NewRouter wires the page, the session API, health checks and metrics. redisClient and
// metricsHandler are optional.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *storefrontsvc.Registry,
	redisClient *redis.Client,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	var (
		pinger  redis.Pinger
		limiter redis.RateLimiter
	)
	if redisClient != nil {
		pinger = redisClient
		limiter = redisClient
	}
	actionPolicy := middleware.NewRateLimitPolicy("actions", cfg.RateLimit.Window, cfg.RateLimit.Actions)
	pagePolicy := middleware.NewRateLimitPolicy("pages", cfg.RateLimit.Window, cfg.RateLimit.Actions)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pinger))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.With(middleware.RateLimit(pagePolicy, limiter, logg)).
		Get("/", storefrontcontrollers.Page(registry, pageTitle, logg))

	r.Route("/api/v1/sessions/{"+middleware.SessionIDParam+"}", func(r chi.Router) {
		r.Use(middleware.CORS(cfg.App.CORSOrigins))
		r.Use(middleware.SessionContext(registry, logg))

		r.Get("/", storefrontcontrollers.SessionView(logg))
		r.Get("/toasts", storefrontcontrollers.Toasts(logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(actionPolicy, limiter, logg))

			r.Post("/cart/items", storefrontcontrollers.AddItem(logg))
			r.Post("/cart/items/remove", storefrontcontrollers.RemoveItem(logg))
			r.Post("/cart/items/adjust", storefrontcontrollers.AdjustQuantity(logg))
			r.Post("/drawer", storefrontcontrollers.ToggleDrawer(logg))
			r.Post("/drawer/escape", storefrontcontrollers.Escape(logg))
			r.Post("/checkout", storefrontcontrollers.Checkout(logg))
			r.Post("/toasts/{"+storefrontcontrollers.ToastIDParam+"}/dismiss", storefrontcontrollers.DismissToast(logg))
		})
	})

	return r
}
