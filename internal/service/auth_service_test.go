package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craftstore/internal/apperr"
	"craftstore/internal/entity"
)

func newAuthService() (*AuthService, *memUsers) {
	users := newMemUsers()
	return NewAuthService(users, nil, []byte("test-secret")), users
}

func parseSession(t *testing.T, svc *AuthService, token string) *SessionClaims {
	t.Helper()
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		return svc.Secret(), nil
	})
	require.NoError(t, err)
	return claims
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Jane", "jane@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCustomer, user.Role)
	assert.True(t, user.Active)
	assert.NotEqual(t, "hunter22", user.Password, "password must be stored hashed")

	token, err := svc.Login(ctx, "jane@example.com", "hunter22")
	require.NoError(t, err)

	claims := parseSession(t, svc, token)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, entity.RoleCustomer, claims.Role)
	assert.NotEmpty(t, claims.SessionID)

	principal, err := svc.Principal(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, entity.RoleCustomer, principal.Role)
}

func TestLoginRejections(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Jane", "jane@example.com", "hunter22")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "jane@example.com", "wrong")
		assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "hunter22")
		assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	})
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "jane@example.com", "hunter22")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Register(ctx, "Jane", "jane@example.com", "short")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCreateStaffRoles(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	staff, err := svc.CreateStaff(ctx, "Max", "max@example.com", "hunter22", entity.RoleWarehouse)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleWarehouse, staff.Role)

	_, err = svc.CreateStaff(ctx, "Eve", "eve@example.com", "hunter22", entity.RoleCustomer)
	assert.True(t, apperr.Is(err, apperr.KindValidation), "customer is not a staff role")

	_, err = svc.CreateStaff(ctx, "Eve", "eve@example.com", "hunter22", "janitor")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestDeactivationLocksOutImmediately(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Jane", "jane@example.com", "hunter22")
	require.NoError(t, err)
	token, err := svc.Login(ctx, "jane@example.com", "hunter22")
	require.NoError(t, err)
	claims := parseSession(t, svc, token)

	require.NoError(t, svc.SetUserActive(ctx, user.ID, false))

	_, err = svc.Principal(ctx, claims)
	assert.True(t, apperr.Is(err, apperr.KindForbidden), "a live token must stop working once the account is off")

	_, err = svc.Login(ctx, "jane@example.com", "hunter22")
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}
