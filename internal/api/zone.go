package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"craftstore/internal/entity"
	"craftstore/internal/service"
)

type ZoneHandler struct {
	delivery *service.DeliveryService
}

func NewZoneHandler(delivery *service.DeliveryService) *ZoneHandler {
	return &ZoneHandler{delivery: delivery}
}

// ListZones --> GET /zones (storefront: active only)
func (h *ZoneHandler) ListZones(c echo.Context) error {
	activeOnly := c.QueryParam("all") != "true"
	zones, err := h.delivery.ListZones(c.Request().Context(), activeOnly)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, zones)
}

// GetZone --> GET /zones/:id
func (h *ZoneHandler) GetZone(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	zone, err := h.delivery.GetZone(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, zone)
}

// CreateZone --> POST /admin/zones
func (h *ZoneHandler) CreateZone(c echo.Context) error {
	zone := entity.DeliveryZone{}
	if err := c.Bind(&zone); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	created, err := h.delivery.CreateZone(c.Request().Context(), &zone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateZone --> PUT /admin/zones/:id
func (h *ZoneHandler) UpdateZone(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	zone := entity.DeliveryZone{}
	if err := c.Bind(&zone); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	zone.ID = id
	updated, err := h.delivery.UpdateZone(c.Request().Context(), &zone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// SetZoneActive --> PUT /admin/zones/:id/active
func (h *ZoneHandler) SetZoneActive(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	req := struct {
		Active bool `json:"active"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if err := h.delivery.SetZoneActive(c.Request().Context(), id, req.Active); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Zone updated"})
}
