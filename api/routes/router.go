package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/basketwise/basketwise-backend/api/controllers"
	"github.com/basketwise/basketwise-backend/api/middleware"
	"github.com/basketwise/basketwise-backend/internal/ads"
	"github.com/basketwise/basketwise-backend/internal/analytics"
	"github.com/basketwise/basketwise-backend/internal/auth"
	"github.com/basketwise/basketwise-backend/internal/budget"
	"github.com/basketwise/basketwise-backend/internal/compare"
	"github.com/basketwise/basketwise-backend/internal/lists"
	"github.com/basketwise/basketwise-backend/internal/prices"
	"github.com/basketwise/basketwise-backend/internal/products"
	"github.com/basketwise/basketwise-backend/internal/stores"
	"github.com/basketwise/basketwise-backend/pkg/auth/session"
	"github.com/basketwise/basketwise-backend/pkg/config"
	"github.com/basketwise/basketwise-backend/pkg/db"
	"github.com/basketwise/basketwise-backend/pkg/enums"
	"github.com/basketwise/basketwise-backend/pkg/logger"
	"github.com/basketwise/basketwise-backend/pkg/metrics"
	pkgredis "github.com/basketwise/basketwise-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        db.Pinger
	Redis     *pkgredis.Client
	Sessions  *session.Manager
	Registry  *prometheus.Registry
	HTTPStats *metrics.HTTPMetrics

	Auth      auth.Service
	Stores    stores.Service
	Products  products.Service
	Prices    prices.Service
	Lists     lists.Service
	Compare   compare.Service
	Budget    budget.Service
	Ads       ads.Service
	Analytics analytics.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPStats),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, d.Redis, logg))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Route("/stores", func(r chi.Router) {
			r.Get("/", controllers.StoreList(d.Stores, logg))
			r.Get("/{storeId}", controllers.StoreGet(d.Stores, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductSearch(d.Products, logg))
			r.Get("/{gtin}", controllers.ProductGet(d.Products, logg))
		})
		r.Get("/ads", controllers.AdsActive(d.Ads, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, d.Redis, logg),
			middleware.Idempotency(d.Redis, logg),
		).Post("/register", controllers.Register(d.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.Login(d.Auth, logg))
		r.Post("/refresh", controllers.Refresh(d.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, d.Sessions, logg)).Post("/logout", controllers.Logout(d.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Route("/lists", func(r chi.Router) {
			r.Post("/", controllers.ListCreate(d.Lists, logg))
			r.Get("/", controllers.ListIndex(d.Lists, logg))
			r.Get("/{listId}", controllers.ListGet(d.Lists, logg))
			r.Patch("/{listId}", controllers.ListUpdate(d.Lists, logg))
			r.Delete("/{listId}", controllers.ListDelete(d.Lists, logg))
			r.Post("/{listId}/items", controllers.ListSetItem(d.Lists, logg))
			r.Put("/{listId}/items", controllers.ListReplaceItems(d.Lists, logg))
			r.Get("/{listId}/budget/suggest", controllers.BudgetSuggest(d.Budget, logg))
			r.Post("/{listId}/budget/apply", controllers.BudgetApply(d.Budget, logg))
		})

		r.Post("/compare", controllers.CompareRun(d.Compare, logg))
		r.Post("/budget/auto-list", controllers.BudgetAutoList(d.Budget, logg))
		r.Get("/prices/averages", controllers.PriceAverages(d.Prices, logg))

		r.Route("/owner", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleMerchant), logg))
			r.Use(middleware.StoreContext(logg))
			r.Route("/prices", func(r chi.Router) {
				r.Get("/", controllers.OwnerPriceList(d.Prices, logg))
				r.Put("/", controllers.OwnerPriceUpsert(d.Prices, logg))
				r.Post("/bulk", controllers.OwnerPriceBulkUpsert(d.Prices, logg))
				r.Delete("/{gtin}", controllers.OwnerPriceDelete(d.Prices, logg))
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Route("/headquarters", func(r chi.Router) {
			r.Post("/", controllers.AdminHQCreate(d.Stores, logg))
			r.Get("/", controllers.AdminHQList(d.Stores, logg))
		})
		r.Route("/stores", func(r chi.Router) {
			r.Post("/", controllers.AdminStoreCreate(d.Stores, logg))
			r.Get("/", controllers.StoreList(d.Stores, logg))
			r.Patch("/{storeId}", controllers.AdminStoreUpdate(d.Stores, logg))
			r.Delete("/{storeId}", controllers.AdminStoreDelete(d.Stores, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductCreate(d.Products, logg))
			r.Patch("/{gtin}", controllers.AdminProductUpdate(d.Products, logg))
			r.Delete("/{gtin}", controllers.AdminProductDelete(d.Products, logg))
		})
		r.Route("/ads", func(r chi.Router) {
			r.Post("/", controllers.AdminAdCreate(d.Ads, logg))
			r.Get("/", controllers.AdminAdList(d.Ads, logg))
			r.Patch("/{adId}", controllers.AdminAdUpdate(d.Ads, logg))
			r.Delete("/{adId}", controllers.AdminAdDelete(d.Ads, logg))
		})
		r.Get("/analytics/summary", controllers.AdminAnalyticsSummary(d.Analytics, logg))
	})

	return r
}
