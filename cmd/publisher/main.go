package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"
)

type locationMessage struct {
	VehicleID string  `json:"vehicle_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// zone centre the drift is anchored on (Hyderabad)
const (
	centreLat = 17.38
	centreLon = 78.48
)

func randomVehicleID() string {
	letter := string(charset[rand.Intn(26)])
	digits := fmt.Sprintf("%04d", rand.Intn(10000))
	suffix := string([]byte{charset[rand.Intn(26)], charset[rand.Intn(26)], charset[rand.Intn(26)]})
	return letter + digits + suffix
}

type vehicle struct {
	id       string
	lat, lon float64
}

// step drifts the vehicle by up to ~200m and pulls it back when it strays
// more than ~3km from the centre, so it keeps crossing zone edges.
func (v *vehicle) step() {
	v.lat += (rand.Float64() - 0.5) * 0.004
	v.lon += (rand.Float64() - 0.5) * 0.004
	if abs(v.lat-centreLat) > 0.03 || abs(v.lon-centreLon) > 0.03 {
		v.lat = centreLat + (rand.Float64()-0.5)*0.02
		v.lon = centreLon + (rand.Float64()-0.5)*0.02
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func main() {
	_ = godotenv.Load(".env")

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("fleet-mock-publisher")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		slog.Error("mqtt_connect_failed", "broker", broker, "error", token.Error())
		os.Exit(1)
	}
	defer client.Disconnect(250)

	pool := make([]*vehicle, 5)
	ids := make([]string, len(pool))
	for i := range pool {
		pool[i] = &vehicle{id: randomVehicleID(), lat: centreLat, lon: centreLon}
		pool[i].step()
		ids[i] = pool[i].id
	}

	slog.Info("publisher_started", "broker", broker, "interval_seconds", intervalSec, "vehicles", ids)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		v := pool[rand.Intn(len(pool))]
		v.step()

		msg := locationMessage{
			VehicleID: v.id,
			Latitude:  v.lat,
			Longitude: v.lon,
			Timestamp: time.Now().Unix(),
		}

		payload, _ := json.Marshal(msg)
		topic := fmt.Sprintf("/fleet/vehicle/%s/location", v.id)

		token := client.Publish(topic, 1, false, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			slog.Error("publish_failed", "topic", topic, "error", err)
			continue
		}

		slog.Info("published", "topic", topic, "payload", string(payload))
	}
}
