package service

import (
	"context"

	"craftstore/internal/apperr"
	"craftstore/internal/entity"
	"craftstore/internal/repository"
)

// DeliveryService manages delivery zones.
type DeliveryService struct {
	zones repository.ZoneRepository
}

func NewDeliveryService(zones repository.ZoneRepository) *DeliveryService {
	return &DeliveryService{zones: zones}
}

func (s *DeliveryService) CreateZone(ctx context.Context, z *entity.DeliveryZone) (*entity.DeliveryZone, error) {
	if err := validateZone(z); err != nil {
		return nil, err
	}
	z.Active = true
	if err := s.zones.Create(ctx, z); err != nil {
		logger.Error().Err(err).Msg("Error creating delivery zone")
		return nil, err
	}
	return z, nil
}

func (s *DeliveryService) UpdateZone(ctx context.Context, z *entity.DeliveryZone) (*entity.DeliveryZone, error) {
	if err := validateZone(z); err != nil {
		return nil, err
	}
	if _, err := s.zones.GetByID(ctx, z.ID); err != nil {
		return nil, err
	}
	if err := s.zones.Update(ctx, z); err != nil {
		return nil, err
	}
	return z, nil
}

func (s *DeliveryService) SetZoneActive(ctx context.Context, id int, active bool) error {
	return s.zones.SetActive(ctx, id, active)
}

func (s *DeliveryService) GetZone(ctx context.Context, id int) (*entity.DeliveryZone, error) {
	return s.zones.GetByID(ctx, id)
}

// ListZones returns active zones for the storefront, or all for admins.
func (s *DeliveryService) ListZones(ctx context.Context, activeOnly bool) ([]entity.DeliveryZone, error) {
	return s.zones.List(ctx, activeOnly)
}

func validateZone(z *entity.DeliveryZone) error {
	if z.District == "" {
		return apperr.New(apperr.KindValidation, "district name is required")
	}
	if z.Cost.IsNegative() {
		return apperr.New(apperr.KindValidation, "delivery cost cannot be negative")
	}
	if z.EstimatedDays <= 0 {
		return apperr.New(apperr.KindValidation, "estimated days must be positive")
	}
	return nil
}
