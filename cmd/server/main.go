package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/geofence-alerter/config"
	"github.com/nandanugg/geofence-alerter/metrics"
	"github.com/nandanugg/geofence-alerter/module/core"
	"github.com/nandanugg/geofence-alerter/module/core/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)

	db, err := config.NewPostgres(cfg)
	if err != nil {
		fatal(logger, "postgres", err)
	}
	defer func() { _ = db.Close() }()

	rdb, err := config.NewRedis(cfg)
	if err != nil {
		fatal(logger, "redis", err)
	}
	defer func() { _ = rdb.Close() }()

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		fatal(logger, "rabbitmq", err)
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg)
	if err != nil {
		fatal(logger, "mqtt", err)
	}
	defer mqttClient.Disconnect(250)

	coreModule, err := core.Build(db, rdb, amqpConn, mqttClient, core.Options{
		LocationsKey:      cfg.LocationsKey,
		SearchCenter:      domain.Point{Lon: cfg.SearchCenterLon, Lat: cfg.SearchCenterLat},
		SearchRadiusKm:    cfg.SearchRadiusKm,
		CyclePeriod:       cfg.CyclePeriod,
		FetchTimeout:      cfg.FetchTimeout,
		PublishTimeout:    cfg.PublishTimeout,
		MQTTAlertsEnabled: cfg.MQTTAlertsEnabled,
	}, logger)
	if err != nil {
		fatal(logger, "core module", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := coreModule.SeedZones(ctx, cfg.ZonesSeedFile); err != nil {
		fatal(logger, "seed zones", err)
	}

	if err := coreModule.StartSubscribers(); err != nil {
		fatal(logger, "start subscribers", err)
	}
	coreModule.StartScheduler(ctx)

	r := gin.New()
	r.Use(gin.Recovery())

	health := config.NewHealthChecker(db, rdb, amqpConn, mqttClient)
	health.Register(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	coreModule.RegisterRoutes(r.Group("/api"))

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_failed", "error", err)
	}
	coreModule.Stop()
}

func fatal(logger *slog.Logger, component string, err error) {
	logger.Error("startup_failed", "component", component, "error", err)
	os.Exit(1)
}
