package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"craftstore/internal/service"
)

type CardHandler struct {
	cards *service.CardService
}

func NewCardHandler(cards *service.CardService) *CardHandler {
	return &CardHandler{cards: cards}
}

// RegisterCard --> POST /cards
func (h *CardHandler) RegisterCard(c echo.Context) error {
	in := service.RegisterCardInput{}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	card, err := h.cards.Register(c.Request().Context(), principal(c).UserID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, card)
}

// ListCards --> GET /cards
func (h *CardHandler) ListCards(c echo.Context) error {
	cards, err := h.cards.ListForUser(c.Request().Context(), principal(c).UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cards)
}

// TopUpCard --> POST /admin/cards/:id/topup
func (h *CardHandler) TopUpCard(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid ID"})
	}
	req := struct {
		Amount decimal.Decimal `json:"amount"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if err := h.cards.TopUp(c.Request().Context(), id, req.Amount); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Balance updated"})
}
