package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admin-dashboard/config"
	"admin-dashboard/internal/api"
	"admin-dashboard/internal/auth"
	"admin-dashboard/internal/backend"
	"admin-dashboard/internal/broker"
	"admin-dashboard/internal/outreach"
	"admin-dashboard/internal/redisclient"
	"admin-dashboard/internal/service"
	"admin-dashboard/internal/store"
	"admin-dashboard/internal/util"
	"admin-dashboard/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const serviceName = "admin-dashboard"

func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, serviceName); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting admin dashboard")

	tp, err := util.InitTracer(serviceName, cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	if tp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Warn("Error shutting down tracer", zap.Error(err))
			}
		}()
	}

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := db.EnsureSchema(context.Background()); err != nil {
		logger.Fatal("Failed to prepare database", zap.Error(err))
	}
	logger.Info("Database connected")

	checks := map[string]api.Check{"database": db.Ping}

	var (
		cache service.SnapshotCache
		locks service.EditLocker
	)
	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn("Redis unavailable, snapshot cache disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		cache, locks = redisClient, redisClient
		checks["redis"] = redisClient.Ping
		logger.Info("Redis connected")
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicAudit)
	defer producer.Close()
	events := broker.NewEventPublisher(producer)

	client := backend.NewClient(backend.Options{
		BaseURL:      cfg.Backend.BaseURL,
		OrdersPath:   cfg.Backend.OrdersPath,
		ProductsPath: cfg.Backend.ProductsPath,
		Timeout:      cfg.Backend.Timeout,
	}, tokenSource(cfg))

	locale, err := language.Parse(cfg.Dashboard.Locale)
	if err != nil {
		logger.Warn("Unknown locale, using en", zap.String("locale", cfg.Dashboard.Locale))
		locale = language.English
	}
	location, err := time.LoadLocation(cfg.Dashboard.Timezone)
	if err != nil {
		logger.Warn("Unknown timezone, using UTC", zap.String("timezone", cfg.Dashboard.Timezone))
		location = time.UTC
	}

	dashboard := service.NewDashboardService(client, cache, service.DashboardOptions{
		PageSize: cfg.Dashboard.PageSize,
		Locale:   locale,
		Location: location,
		CacheTTL: cfg.Redis.SnapshotTTL,
	})
	stock := service.NewStockService(dashboard, client, events, locks)
	composer := outreach.NewComposer(cfg.Outreach.StoreURL, cfg.Outreach.CountryCode)
	outreachSvc := service.NewOutreachService(dashboard, db, composer, events)

	if err := dashboard.Refresh(context.Background()); err != nil {
		logger.Warn("Initial fetch failed", zap.Error(err))
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicBackend, cfg.Kafka.ConsumerGroup)
	syncWorker := worker.NewSyncWorker(consumer, dashboard, cfg.Dashboard.ChangeSettle)
	go func() {
		if err := syncWorker.Start(workerCtx); err != nil && workerCtx.Err() == nil {
			logger.Error("Sync worker error", zap.Error(err))
		}
	}()
	go syncWorker.Tick(workerCtx, cfg.Dashboard.RefreshInterval)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, admin API is unauthenticated")
	}

	router := gin.New()
	handler := api.NewHandler(dashboard, stock, outreachSvc, cfg.Auth.JWTSecret, checks)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	var metricsSrv *http.Server
	if port := cfg.Observ.PrometheusPort; port != "" && port != cfg.Server.Port {
		metricsSrv = api.NewMetricsServer(port)
		go func() {
			logger.Info("Starting metrics server", zap.String("port", port))
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server error", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Metrics server forced to shutdown", zap.Error(err))
		}
	}

	workerCancel()
	if err := syncWorker.Stop(); err != nil {
		logger.Warn("Error stopping sync worker", zap.Error(err))
	}

	logger.Info("Server exited")
}

// tokenSource prefers a static backend token over a minted service token
func tokenSource(cfg *config.Config) auth.TokenSource {
	switch {
	case cfg.Backend.Token != "":
		return auth.StaticToken(cfg.Backend.Token)
	case cfg.Auth.JWTSecret != "":
		return auth.NewServiceTokenSource(cfg.Auth.JWTSecret, serviceName, cfg.Auth.ServiceTokenTTL)
	default:
		return nil
	}
}
