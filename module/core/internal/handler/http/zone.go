package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
)

type zoneService interface {
	List(ctx context.Context) ([]domain.Zone, error)
	Get(ctx context.Context, zoneID string) (*domain.Zone, error)
	Create(ctx context.Context, z *domain.Zone) error
	Delete(ctx context.Context, zoneID string) error
}

type createZoneRequest struct {
	Name    string                `json:"name" binding:"required"`
	Type    string                `json:"type"`
	GeoJSON domain.GeoJSONPolygon `json:"geojson"`
}

type zoneResponse struct {
	ID      string                `json:"id"`
	Name    string                `json:"name"`
	Type    string                `json:"type"`
	GeoJSON domain.GeoJSONPolygon `json:"geojson"`
}

type ZoneHandler struct {
	zoneSvc zoneService
}

func NewZoneHandler(zoneSvc zoneService) *ZoneHandler {
	return &ZoneHandler{zoneSvc: zoneSvc}
}

func (h *ZoneHandler) Register(r *gin.RouterGroup) {
	r.GET("/zones", h.ListZones)
	r.GET("/zones/:zone_id", h.GetZone)
	r.POST("/zones", h.CreateZone)
	r.DELETE("/zones/:zone_id", h.DeleteZone)
}

func (h *ZoneHandler) ListZones(c *gin.Context) {
	zones, err := h.zoneSvc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch zones"})
		return
	}

	results := make([]zoneResponse, len(zones))
	for i := range zones {
		results[i] = toZoneResponse(&zones[i])
	}
	c.JSON(http.StatusOK, results)
}

func (h *ZoneHandler) GetZone(c *gin.Context) {
	z, err := h.zoneSvc.Get(c.Request.Context(), c.Param("zone_id"))
	if err != nil {
		if errors.Is(err, domain.ErrZoneNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "zone not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch zone"})
		return
	}

	c.JSON(http.StatusOK, toZoneResponse(z))
}

func (h *ZoneHandler) CreateZone(c *gin.Context) {
	var req createZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zone: " + err.Error()})
		return
	}

	rings, err := req.GeoJSON.Rings()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	z := &domain.Zone{Name: req.Name, Kind: domain.ZoneKind(req.Type), Rings: rings}
	if err := h.zoneSvc.Create(c.Request.Context(), z); err != nil {
		if errors.Is(err, domain.ErrInvalidGeometry) || errors.Is(err, domain.ErrInvalidZoneKind) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create zone"})
		return
	}

	c.JSON(http.StatusCreated, toZoneResponse(z))
}

func (h *ZoneHandler) DeleteZone(c *gin.Context) {
	if err := h.zoneSvc.Delete(c.Request.Context(), c.Param("zone_id")); err != nil {
		if errors.Is(err, domain.ErrZoneNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "zone not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete zone"})
		return
	}

	c.Status(http.StatusNoContent)
}

func toZoneResponse(z *domain.Zone) zoneResponse {
	return zoneResponse{
		ID:      z.ID,
		Name:    z.Name,
		Type:    string(z.Kind),
		GeoJSON: domain.PolygonFromRings(z.Rings),
	}
}
