package config

import (
	"database/sql"
	"net/http"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type HealthChecker struct {
	db       *sql.DB
	rdb      redis.Cmdable
	amqpConn *amqp.Connection
	mqtt     mqtt.Client
}

func NewHealthChecker(db *sql.DB, rdb redis.Cmdable, amqpConn *amqp.Connection, mqttClient mqtt.Client) *HealthChecker {
	return &HealthChecker{db: db, rdb: rdb, amqpConn: amqpConn, mqtt: mqttClient}
}

func (h *HealthChecker) Register(r *gin.Engine) {
	r.GET("/healthz", h.Handle)
}

func (h *HealthChecker) Handle(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	deps := gin.H{}

	down := func(name, reason string) {
		deps[name] = gin.H{"status": "down", "error": reason}
		status = http.StatusServiceUnavailable
	}

	if err := h.db.PingContext(ctx); err != nil {
		down("postgres", err.Error())
	} else {
		deps["postgres"] = gin.H{"status": "up"}
	}

	if err := h.rdb.Ping(ctx).Err(); err != nil {
		down("redis", err.Error())
	} else {
		deps["redis"] = gin.H{"status": "up"}
	}

	if h.amqpConn == nil || h.amqpConn.IsClosed() {
		down("rabbitmq", "connection closed")
	} else {
		deps["rabbitmq"] = gin.H{"status": "up"}
	}

	if h.mqtt == nil || !h.mqtt.IsConnected() {
		down("mqtt", "not connected")
	} else {
		deps["mqtt"] = gin.H{"status": "up"}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":       overall,
		"dependencies": deps,
	})
}
