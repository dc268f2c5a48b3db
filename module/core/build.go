package core

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
	handler "github.com/nandanugg/geofence-alerter/module/core/internal/handler/http"
	"github.com/nandanugg/geofence-alerter/module/core/internal/handler/subscriber"
	"github.com/nandanugg/geofence-alerter/module/core/internal/repository/database/memory"
	"github.com/nandanugg/geofence-alerter/module/core/internal/repository/database/postgres"
	"github.com/nandanugg/geofence-alerter/module/core/internal/repository/database/redis"
	"github.com/nandanugg/geofence-alerter/module/core/internal/repository/database/seed"
	"github.com/nandanugg/geofence-alerter/module/core/internal/repository/publisher"
	mqttpub "github.com/nandanugg/geofence-alerter/module/core/internal/repository/publisher/mqtt"
	"github.com/nandanugg/geofence-alerter/module/core/internal/repository/publisher/rabbitmq"
	"github.com/nandanugg/geofence-alerter/module/core/service"
)

type Options struct {
	LocationsKey      string
	SearchCenter      domain.Point
	SearchRadiusKm    float64
	CyclePeriod       time.Duration
	FetchTimeout      time.Duration
	PublishTimeout    time.Duration
	MQTTAlertsEnabled bool
}

type Module struct {
	LocationSvc *service.LocationService
	ZoneSvc     *service.ZoneService
	Scheduler   *service.Scheduler

	cyclePeriod   time.Duration
	driverHandler *handler.DriverHandler
	zoneHandler   *handler.ZoneHandler
	subscriber    *subscriber.LocationSubscriber
	logger        *slog.Logger
}

func Build(db *sql.DB, rdb goredis.Cmdable, amqpConn *amqp.Connection, mqttClient mqtt.Client, opts Options, logger *slog.Logger) (*Module, error) {
	if logger == nil {
		logger = slog.Default()
	}

	locationRepo := redis.NewLocationRepo(rdb, opts.LocationsKey, redis.SearchArea{
		Center:   opts.SearchCenter,
		RadiusKm: opts.SearchRadiusKm,
	})
	zoneRepo := postgres.NewZoneRepo(db)
	members := memory.NewMembershipStore()

	alertPub, err := rabbitmq.NewAlertPublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("alert publisher: %w", err)
	}
	sinks := publisher.Fanout{alertPub}
	if opts.MQTTAlertsEnabled {
		sinks = append(sinks, mqttpub.NewAlertPublisher(mqttClient))
	}

	locationSvc := service.NewLocationService(locationRepo, members)
	zoneSvc := service.NewZoneService(zoneRepo)

	detector := service.NewTransitionDetector(locationRepo, zoneRepo, members, opts.FetchTimeout, logger)
	scheduler := service.NewScheduler(detector, sinks, service.SchedulerConfig{
		PublishTimeout: opts.PublishTimeout,
	}, logger)

	return &Module{
		LocationSvc:   locationSvc,
		ZoneSvc:       zoneSvc,
		Scheduler:     scheduler,
		cyclePeriod:   opts.CyclePeriod,
		driverHandler: handler.NewDriverHandler(locationSvc),
		zoneHandler:   handler.NewZoneHandler(zoneSvc),
		subscriber:    subscriber.NewLocationSubscriber(mqttClient, locationSvc, logger),
		logger:        logger,
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.driverHandler.Register(r)
	m.zoneHandler.Register(r)
}

func (m *Module) StartSubscribers() error {
	return m.subscriber.Start()
}

func (m *Module) StartScheduler(ctx context.Context) {
	m.Scheduler.Start(ctx, m.cyclePeriod)
}

// SeedZones upserts the zones of a YAML seed file. An empty path is a no-op.
func (m *Module) SeedZones(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	zones, err := seed.LoadZones(path)
	if err != nil {
		return fmt.Errorf("load seed file: %w", err)
	}
	n, err := m.ZoneSvc.Seed(ctx, zones)
	if err != nil {
		return fmt.Errorf("seed zones: %w", err)
	}
	m.logger.Info("zones_seeded", "path", path, "count", n)
	return nil
}

// Stop waits for the in-flight cycle and drains pending alerts.
func (m *Module) Stop() {
	m.Scheduler.Stop()
}
