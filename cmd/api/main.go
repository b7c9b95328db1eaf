package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"storefront-catalog/internal/catalog"
	"storefront-catalog/internal/config"
	"storefront-catalog/internal/database"
	"storefront-catalog/internal/handlers"
	"storefront-catalog/internal/logger"
	"storefront-catalog/internal/metrics"
	"storefront-catalog/internal/repository"
	"storefront-catalog/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Sin configuración todavía no hay logger propio
		logger.New(logger.Options{ServiceName: "product-catalog"}).Error(context.Background(), "load config", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: cfg.App.Name,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx := context.Background()
	if cfg.EnvFileLoaded {
		logg.Debug(ctx, "loaded .env file")
	}

	client, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		logg.Error(ctx, "mongo connect", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Disconnect(context.Background(), client); err != nil {
			logg.Error(ctx, "mongo disconnect", err)
		}
	}()

	collection := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
	if _, err := database.EnsureIndexes(ctx, collection); err != nil {
		logg.Error(ctx, "ensure indexes", err)
		_ = database.Disconnect(context.Background(), client)
		os.Exit(1)
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"database":   cfg.Mongo.Database,
		"collection": cfg.Mongo.Collection,
	}), "connected to mongodb")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	repo := repository.NewProductRepository(collection)
	service := catalog.NewService(repo, logg)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.RegisterRoutes(router, routes.Dependencies{
		Logger:   logg,
		Metrics:  metrics.NewHTTPMetrics(registry),
		Gatherer: registry,
		Products: handlers.NewProductHandler(service, logg),
		Health: handlers.NewHealthHandler(func(ctx context.Context) error {
			return database.Ping(ctx, client)
		}, logg),
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", srv.Addr), "server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
	case err := <-serverErr:
		logg.Error(ctx, "server failed", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "server shutdown", err)
	}
	logg.Info(ctx, "server stopped")
}
