package service

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"craftstore/internal/apperr"
	"craftstore/internal/entity"
	"craftstore/internal/repository"
)

// CardService manages simulated stored-value cards. Debits and refunds go
// through the order transaction, never through this service.
type CardService struct {
	cards repository.CardRepository
}

func NewCardService(cards repository.CardRepository) *CardService {
	return &CardService{cards: cards}
}

// RegisterCardInput carries the raw card number; only a masked form is stored.
type RegisterCardInput struct {
	Number      string          `json:"number"`
	Holder      string          `json:"holder"`
	ExpiryMonth int             `json:"expiry_month"`
	ExpiryYear  int             `json:"expiry_year"`
	Balance     decimal.Decimal `json:"balance"`
}

func (s *CardService) Register(ctx context.Context, userID int, in RegisterCardInput) (*entity.SimulatedCard, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, in.Number)
	if len(digits) < 12 || len(digits) > 19 {
		return nil, apperr.New(apperr.KindValidation, "card number must have 12 to 19 digits")
	}
	if in.Holder == "" {
		return nil, apperr.New(apperr.KindValidation, "card holder name is required")
	}
	if in.ExpiryMonth < 1 || in.ExpiryMonth > 12 {
		return nil, apperr.New(apperr.KindValidation, "expiry month must be 1-12")
	}
	if in.Balance.IsNegative() {
		return nil, apperr.New(apperr.KindValidation, "opening balance cannot be negative")
	}

	card := &entity.SimulatedCard{
		UserID:       userID,
		MaskedNumber: "**** **** **** " + digits[len(digits)-4:],
		Holder:       in.Holder,
		ExpiryMonth:  in.ExpiryMonth,
		ExpiryYear:   in.ExpiryYear,
		Balance:      in.Balance,
	}
	if card.Expired(time.Now()) {
		return nil, apperr.New(apperr.KindValidation, "card is already expired")
	}
	if err := s.cards.Create(ctx, card); err != nil {
		logger.Error().Err(err).Msgf("Error registering card for user %d", userID)
		return nil, err
	}
	return card, nil
}

func (s *CardService) ListForUser(ctx context.Context, userID int) ([]entity.SimulatedCard, error) {
	return s.cards.ListForUser(ctx, userID)
}

// TopUp adds funds to a card balance. Admin operation.
func (s *CardService) TopUp(ctx context.Context, cardID int, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperr.New(apperr.KindValidation, "top-up amount must be positive")
	}
	return s.cards.Credit(ctx, cardID, amount)
}
