package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prathmeshnaik91/skinet/pkg/health"
	"github.com/prathmeshnaik91/skinet/pkg/httputil"
	"github.com/prathmeshnaik91/skinet/pkg/middleware"
)

// Services groups the application services the router dispatches to.
type Services struct {
	Catalog CatalogService
	Basket  BasketService
	Account AccountService
}

// RouterConfig carries the cross-cutting settings of the HTTP stack.
type RouterConfig struct {
	ServiceName string
	Logger      *slog.Logger

	// ExposeErrorDetails returns panic messages and stack traces in 500
	// responses.
	ExposeErrorDetails bool

	CORS       middleware.CORSConfig
	PprofCIDRs []string

	// ResponseCache stores catalog responses for ResponseCacheTTL. Nil
	// disables response caching.
	ResponseCache    middleware.ResponseStore
	ResponseCacheTTL time.Duration

	TokenValidator middleware.TokenValidator

	// AuthRateLimit throttles login and register per client IP.
	AuthRateLimit middleware.RateLimitConfig
}

// NewRouter creates a chi router with all store API routes registered.
func NewRouter(svcs Services, healthHandler *health.Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger, cfg.ExposeErrorDetails))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteStatus(w, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteStatus(w, http.StatusMethodNotAllowed)
	})

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	r.Get("/errors/{code}", StatusCode)

	requireAuth := middleware.Auth(cfg.TokenValidator)

	products := NewProductHandler(svcs.Catalog, logger)
	r.Route("/api/products", func(r chi.Router) {
		if cfg.ResponseCache != nil {
			r.Use(middleware.ResponseCache(cfg.ResponseCache, cfg.ResponseCacheTTL, logger))
		}
		r.Get("/", products.ListProducts)
		r.Get("/brands", products.ListBrands)
		r.Get("/types", products.ListTypes)
		r.Get("/{id}", products.GetProduct)
	})

	basket := NewBasketHandler(svcs.Basket, logger)
	r.Route("/api/basket", func(r chi.Router) {
		r.Get("/", basket.GetBasket)
		r.Post("/", basket.UpdateBasket)
		r.Delete("/", basket.DeleteBasket)
	})

	account := NewAccountHandler(svcs.Account, logger)
	r.Route("/api/account", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.AuthRateLimit, logger))
			r.Post("/login", account.Login)
			r.Post("/register", account.Register)
		})
		r.Get("/emailexists", account.EmailExists)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", account.CurrentUser)
			r.Get("/address", account.GetAddress)
			r.Put("/address", account.UpdateAddress)
		})
	})

	buggy := NewBuggyHandler(svcs.Catalog, logger)
	r.Route("/api/buggy", func(r chi.Router) {
		r.With(requireAuth).Get("/testauth", buggy.TestAuth)
		r.Get("/notfound", buggy.NotFound)
		r.Get("/servererror", buggy.ServerError)
		r.Get("/badrequest", buggy.BadRequest)
		r.Get("/badrequest/{id}", buggy.BadRequestWithID)
	})

	return r
}
