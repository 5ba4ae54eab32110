package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/admin-console/internal/api/http"
	"github.com/spec-kit/admin-console/internal/api/http/handlers"
	"github.com/spec-kit/admin-console/internal/authz"
	"github.com/spec-kit/admin-console/internal/backend"
	"github.com/spec-kit/admin-console/internal/config"
	"github.com/spec-kit/admin-console/internal/events"
	"github.com/spec-kit/admin-console/internal/observability"
	"github.com/spec-kit/admin-console/internal/persistence"
	"github.com/spec-kit/admin-console/internal/session"
	"github.com/spec-kit/admin-console/internal/stores"
	"github.com/spec-kit/admin-console/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	tokenStore := session.NewRedisTokenStore(redis.Client)
	sessions := session.NewManager(tokenStore, cfg.Session.TTL(), cfg.Session.ProfileFetchTimeout(), logger)

	transport := backend.NewAuthTransport(
		nil,
		sessions,
		cfg.Backend.BaseURL+"/auth/refresh",
		cfg.Backend.RefreshTimeout(),
		metrics,
		logger,
	)
	api := backend.New(cfg.Backend.BaseURL, transport, cfg.Backend.Timeout(), metrics, logger)
	sessions.SetProfileFetcher(api)

	clientsStore := stores.NewClientsStore(api, time.Duration(cfg.Cache.SalesStaleSeconds)*time.Second, metrics)
	salesStore := stores.NewSalesStore(api, time.Duration(cfg.Cache.SalesStaleSeconds)*time.Second, metrics)
	paymentsStore := stores.NewPaymentsStore(api, time.Duration(cfg.Cache.PaymentsStaleSeconds)*time.Second, metrics)
	financeStore := stores.NewFinanceStore(api, time.Duration(cfg.Cache.FinanceStaleSeconds)*time.Second, metrics)
	adminStore := stores.NewAdminStatsStore(api, time.Duration(cfg.Cache.AdminStaleSeconds)*time.Second, metrics)
	rateStore := stores.NewExchangeRateStore(api, time.Duration(cfg.Cache.ExchangeRateTTLHours)*time.Hour, metrics)
	projectsStore := stores.NewProjectsStore(api, time.Duration(cfg.Cache.ProjectsStaleSeconds)*time.Second, metrics)

	dispatcher := events.NewInMemoryDispatcher()
	worker.RegisterAuditLog(dispatcher, logger)
	sessions.SetDispatcher(dispatcher)
	transport.SetDispatcher(dispatcher)

	rateWorker := worker.NewRateWorker(
		rateStore,
		sessions,
		dispatcher,
		time.Duration(cfg.Cache.RateRefreshMinutes)*time.Minute,
		cfg.Backend.ServiceToken,
		logger,
	)
	rateWorker.Start(ctx)

	gate := authz.NewGate(sessions, cfg.App.LoginPath)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.Session, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(redis),
		Auth:      handlers.NewAuthHandler(api, sessions, dispatcher),
		Clients:   handlers.NewClientsHandler(clientsStore, salesStore),
		Users:     handlers.NewUsersHandler(api, adminStore),
		Payments:  handlers.NewPaymentsHandler(paymentsStore),
		Finance:   handlers.NewFinanceHandler(financeStore, rateStore),
		Wordpress: handlers.NewWordpressHandler(projectsStore),
		Gate:      gate,
		Registry:  registry,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
