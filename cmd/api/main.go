package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/basketwise/basketwise-backend/api/routes"
	"github.com/basketwise/basketwise-backend/internal/ads"
	"github.com/basketwise/basketwise-backend/internal/analytics"
	"github.com/basketwise/basketwise-backend/internal/auth"
	"github.com/basketwise/basketwise-backend/internal/budget"
	"github.com/basketwise/basketwise-backend/internal/compare"
	"github.com/basketwise/basketwise-backend/internal/lists"
	"github.com/basketwise/basketwise-backend/internal/prices"
	"github.com/basketwise/basketwise-backend/internal/products"
	"github.com/basketwise/basketwise-backend/internal/stores"
	"github.com/basketwise/basketwise-backend/internal/users"
	"github.com/basketwise/basketwise-backend/pkg/auth/session"
	"github.com/basketwise/basketwise-backend/pkg/config"
	"github.com/basketwise/basketwise-backend/pkg/db"
	"github.com/basketwise/basketwise-backend/pkg/logger"
	"github.com/basketwise/basketwise-backend/pkg/metrics"
	"github.com/basketwise/basketwise-backend/pkg/migrate"
	pkgredis "github.com/basketwise/basketwise-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	compareMetrics := metrics.NewCompareMetrics(registry)

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	storeRepo := stores.NewRepository(gormDB)
	productRepo := products.NewRepository(gormDB)
	priceRepo := prices.NewRepository(gormDB)
	listRepo := lists.NewRepository(gormDB)
	adRepo := ads.NewRepository(gormDB)
	analyticsRepo := analytics.NewRepository(gormDB)

	analyticsService, err := analytics.NewService(analytics.ServiceParams{
		Repo:   analyticsRepo,
		Logger: logg,
	})
	exitOn(logg, "analytics service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  userRepo,
		StoreRepo: storeRepo,
		Sessions:  sessionManager,
		JWT:       cfg.JWT,
		Password:  cfg.Password,
	})
	exitOn(logg, "auth service", err)

	storeService, err := stores.NewService(stores.ServiceParams{
		Repo:     storeRepo,
		UserRepo: userRepo,
	})
	exitOn(logg, "store service", err)

	productService, err := products.NewService(products.ServiceParams{
		Repo: productRepo,
	})
	exitOn(logg, "product service", err)

	priceService, err := prices.NewService(prices.ServiceParams{
		Repo:        priceRepo,
		ProductRepo: productRepo,
		StoreRepo:   storeRepo,
	})
	exitOn(logg, "price service", err)

	listService, err := lists.NewService(lists.ServiceParams{
		Repo:        listRepo,
		ProductRepo: productRepo,
		StoreRepo:   storeRepo,
	})
	exitOn(logg, "list service", err)

	compareService, err := compare.NewService(compare.ServiceParams{
		Prices:    priceService,
		Lists:     listRepo,
		Stores:    storeRepo,
		Events:    analyticsService,
		Metrics:   compareMetrics,
		MaxStores: cfg.Compare.MaxStores,
	})
	exitOn(logg, "compare service", err)

	modelClient, err := budget.NewOpenAIClient(cfg.OpenAI)
	exitOn(logg, "model client", err)

	budgetService, err := budget.NewService(budget.ServiceParams{
		Lists:         listService,
		Candidates:    priceRepo,
		Completer:     modelClient,
		Events:        analyticsService,
		Metrics:       compareMetrics,
		Model:         cfg.OpenAI.Model,
		MaxCandidates: cfg.Budget.MaxCandidates,
	})
	exitOn(logg, "budget service", err)

	adService, err := ads.NewService(ads.ServiceParams{
		Repo:      adRepo,
		StoreRepo: storeRepo,
	})
	exitOn(logg, "ad service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			Sessions:  sessionManager,
			Registry:  registry,
			HTTPStats: httpMetrics,
			Auth:      authService,
			Stores:    storeService,
			Products:  productService,
			Prices:    priceService,
			Lists:     listService,
			Compare:   compareService,
			Budget:    budgetService,
			Ads:       adService,
			Analytics: analyticsService,
		}),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func exitOn(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+resource, err)
	os.Exit(1)
}
