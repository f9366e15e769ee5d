package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craftstore/internal/apperr"
	"craftstore/internal/entity"
)

func TestZoneValidation(t *testing.T) {
	svc := NewDeliveryService(newMemZones())
	ctx := context.Background()

	_, err := svc.CreateZone(ctx, &entity.DeliveryZone{Cost: dec("5.00"), EstimatedDays: 2})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "missing district")

	_, err = svc.CreateZone(ctx, &entity.DeliveryZone{District: "Old Town", Cost: dec("-1"), EstimatedDays: 2})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "negative cost")

	_, err = svc.CreateZone(ctx, &entity.DeliveryZone{District: "Old Town", Cost: dec("5.00")})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "missing estimate")

	zone, err := svc.CreateZone(ctx, &entity.DeliveryZone{District: "Old Town", Cost: dec("0"), EstimatedDays: 1})
	require.NoError(t, err, "free delivery is a valid cost")
	assert.True(t, zone.Active)
}

func TestZoneListingFilter(t *testing.T) {
	svc := NewDeliveryService(newMemZones())
	ctx := context.Background()

	a, err := svc.CreateZone(ctx, &entity.DeliveryZone{District: "Old Town", Cost: dec("5.00"), EstimatedDays: 2})
	require.NoError(t, err)
	_, err = svc.CreateZone(ctx, &entity.DeliveryZone{District: "Harbor", Cost: dec("8.00"), EstimatedDays: 3})
	require.NoError(t, err)
	require.NoError(t, svc.SetZoneActive(ctx, a.ID, false))

	active, err := svc.ListZones(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, "Harbor", active[0].District)

	all, err := svc.ListZones(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
