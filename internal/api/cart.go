package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"craftstore/internal/service"
)

type CartHandler struct {
	cart *service.CartService
}

func NewCartHandler(cart *service.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// GetCart returns the priced cart --> GET /cart
func (h *CartHandler) GetCart(c echo.Context) error {
	priced, err := h.cart.PricedCart(c.Request().Context(), principal(c).UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, priced)
}

// AddItem --> POST /cart/items
func (h *CartHandler) AddItem(c echo.Context) error {
	req := struct {
		VariantID int `json:"variant_id"`
		Quantity  int `json:"quantity"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if err := h.cart.AddItem(c.Request().Context(), principal(c).UserID, req.VariantID, req.Quantity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Item added"})
}

// UpdateItem --> PUT /cart/items/:variantId
func (h *CartHandler) UpdateItem(c echo.Context) error {
	variantID, err := strconv.Atoi(c.Param("variantId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid variant ID"})
	}
	req := struct {
		Quantity int `json:"quantity"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if err := h.cart.UpdateQuantity(c.Request().Context(), principal(c).UserID, variantID, req.Quantity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Quantity updated"})
}

// RemoveItem --> DELETE /cart/items/:variantId
func (h *CartHandler) RemoveItem(c echo.Context) error {
	variantID, err := strconv.Atoi(c.Param("variantId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid variant ID"})
	}
	if err := h.cart.RemoveItem(c.Request().Context(), principal(c).UserID, variantID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Item removed"})
}

// ClearCart --> DELETE /cart
func (h *CartHandler) ClearCart(c echo.Context) error {
	if err := h.cart.Clear(c.Request().Context(), principal(c).UserID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Cart cleared"})
}
