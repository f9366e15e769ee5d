package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"craftstore/internal/entity"
	"craftstore/internal/receipt"
	"craftstore/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// PlaceOrder --> POST /orders
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	in := service.PlaceOrderInput{}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	in.IdempotentKey = c.Request().Header.Get("Idempotent-Key")

	order, err := h.orders.PlaceOrder(c.Request().Context(), principal(c).UserID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// GetOrder --> GET /orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	order, err := h.orders.Get(c.Request().Context(), principal(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ListMyOrders --> GET /orders
func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	orders, err := h.orders.ListMine(c.Request().Context(), principal(c).UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// ListQueue returns the staff work queue --> GET /staff/orders
func (h *OrderHandler) ListQueue(c echo.Context) error {
	orders, err := h.orders.ListQueue(c.Request().Context(), principal(c).Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// AdvanceStatus --> PUT /staff/orders/:id/status
func (h *OrderHandler) AdvanceStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	req := struct {
		Status entity.OrderStatus `json:"status"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	order, err := h.orders.AdvanceStatus(c.Request().Context(), principal(c), id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// CancelOrder --> POST /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	order, err := h.orders.Cancel(c.Request().Context(), principal(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// GetReceipt renders the PDF receipt --> GET /orders/:id/receipt
func (h *OrderHandler) GetReceipt(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	order, err := h.orders.Get(c.Request().Context(), principal(c), id)
	if err != nil {
		return respondError(c, err)
	}
	pdf, err := receipt.Render(order)
	if err != nil {
		return respondError(c, err)
	}
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
