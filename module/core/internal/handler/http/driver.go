package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/geofence-alerter/metrics"
	"github.com/nandanugg/geofence-alerter/module/core/domain"
)

type locationService interface {
	UpdateLocation(ctx context.Context, pos domain.EntityPosition) error
	Nearby(ctx context.Context, query domain.NearbyQuery) ([]domain.NearbyVehicle, error)
	CurrentZones(vehicleID string) []string
}

type updateLocationRequest struct {
	Longitude *float64 `json:"longitude" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
}

type nearbyResponse struct {
	DriverID    string     `json:"driver_id"`
	Distance    float64    `json:"distance"`
	Coordinates [2]float64 `json:"coordinates"`
}

type zonesResponse struct {
	DriverID string   `json:"driver_id"`
	Zones    []string `json:"zones"`
}

type DriverHandler struct {
	locationSvc locationService
}

func NewDriverHandler(locationSvc locationService) *DriverHandler {
	return &DriverHandler{locationSvc: locationSvc}
}

func (h *DriverHandler) Register(r *gin.RouterGroup) {
	r.POST("/drivers/:driver_id/location", h.UpdateLocation)
	r.GET("/drivers/:driver_id/zones", h.GetCurrentZones)
	r.GET("/geofence", h.GetNearbyDrivers)
}

func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	driverID := c.Param("driver_id")

	var req updateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.LocationUpdatesTotal.WithLabelValues("http", "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required body parameters: longitude, latitude"})
		return
	}

	pos := domain.EntityPosition{
		VehicleID: driverID,
		Point:     domain.Point{Lon: *req.Longitude, Lat: *req.Latitude},
	}
	if err := h.locationSvc.UpdateLocation(c.Request.Context(), pos); err != nil {
		if errors.Is(err, domain.ErrInvalidPosition) {
			metrics.LocationUpdatesTotal.WithLabelValues("http", "invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		metrics.LocationUpdatesTotal.WithLabelValues("http", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	metrics.LocationUpdatesTotal.WithLabelValues("http", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Location updated for driver %s", driverID)})
}

func (h *DriverHandler) GetCurrentZones(c *gin.Context) {
	driverID := c.Param("driver_id")

	zones := h.locationSvc.CurrentZones(driverID)
	if zones == nil {
		zones = []string{}
	}
	c.JSON(http.StatusOK, zonesResponse{DriverID: driverID, Zones: zones})
}

func (h *DriverHandler) GetNearbyDrivers(c *gin.Context) {
	lon, errLon := strconv.ParseFloat(c.Query("longitude"), 64)
	lat, errLat := strconv.ParseFloat(c.Query("latitude"), 64)
	radius, errRadius := strconv.ParseFloat(c.Query("radius"), 64)
	if errLon != nil || errLat != nil || errRadius != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters: longitude, latitude, radius"})
		return
	}

	vehicles, err := h.locationSvc.Nearby(c.Request.Context(), domain.NearbyQuery{
		Center:       domain.Point{Lon: lon, Lat: lat},
		RadiusMeters: radius,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPosition) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	results := make([]nearbyResponse, len(vehicles))
	for i, v := range vehicles {
		results[i] = nearbyResponse{
			DriverID:    v.VehicleID,
			Distance:    v.DistanceMeters,
			Coordinates: [2]float64{v.Point.Lon, v.Point.Lat},
		}
	}
	c.JSON(http.StatusOK, results)
}
