package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CyclesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geofence_cycles_total",
		Help: "Detection cycles by result (ok, empty, fetch_error)",
	}, []string{"result"})
	CycleDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "geofence_cycle_duration_seconds",
		Help:    "Wall time of one detection cycle including snapshot fetches",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	})
	TicksSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geofence_ticks_skipped_total",
		Help: "Ticks skipped because the previous cycle was still running",
	})
	TransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geofence_transitions_total",
		Help: "Transition events produced by direction",
	}, []string{"direction"})
	InvalidZonesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geofence_invalid_zones_total",
		Help: "Zones skipped for a cycle because of malformed geometry",
	})
	InvalidPositionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geofence_invalid_positions_total",
		Help: "Vehicle positions skipped for a cycle because of invalid coordinates",
	})
	AlertsPublishedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geofence_alerts_published_total",
		Help: "Transition alerts accepted by the alert sink",
	})
	AlertsFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geofence_alerts_failed_total",
		Help: "Transition alerts the alert sink rejected",
	})
	AlertsPending = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "geofence_alerts_pending",
		Help: "Transition alerts waiting for the dispatcher",
	})
	MembershipRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "geofence_membership_records",
		Help: "Tracked (vehicle, zone) pairs in the membership store after the last cycle",
	})
	LocationUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geofence_location_updates_total",
		Help: "Vehicle location updates by ingest channel and result",
	}, []string{"channel", "result"})
)

func init() {
	prometheus.MustRegister(CyclesTotal)
	prometheus.MustRegister(CycleDurationSeconds)
	prometheus.MustRegister(TicksSkippedTotal)
	prometheus.MustRegister(TransitionsTotal)
	prometheus.MustRegister(InvalidZonesTotal)
	prometheus.MustRegister(InvalidPositionsTotal)
	prometheus.MustRegister(AlertsPublishedTotal)
	prometheus.MustRegister(AlertsFailedTotal)
	prometheus.MustRegister(AlertsPending)
	prometheus.MustRegister(MembershipRecords)
	prometheus.MustRegister(LocationUpdatesTotal)
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler { return promhttp.Handler() }
