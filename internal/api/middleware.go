package api

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"craftstore/internal/entity"
	"craftstore/internal/service"
)

const principalKey = "principal"

// JWTMiddleware validates the bearer token and parses SessionClaims.
func JWTMiddleware(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: secret,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.SessionClaims)
		},
	})
}

// PrincipalMiddleware resolves validated claims into a request-scoped
// principal: the session must still exist in redis and the account must be
// active. Runs after JWTMiddleware.
func PrincipalMiddleware(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing session"})
			}
			claims, ok := token.Claims.(*service.SessionClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid session"})
			}
			principal, err := auth.Principal(c.Request().Context(), claims)
			if err != nil {
				return respondError(c, err)
			}
			c.Set(principalKey, *principal)
			return next(c)
		}
	}
}

// RequireRoles rejects requests whose principal role is outside the allowed
// set for the endpoint.
func RequireRoles(roles ...entity.Role) echo.MiddlewareFunc {
	allowed := make(map[entity.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := c.Get(principalKey).(entity.Principal)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing session"})
			}
			if !allowed[p.Role] {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient role"})
			}
			return next(c)
		}
	}
}

func principal(c echo.Context) entity.Principal {
	p, _ := c.Get(principalKey).(entity.Principal)
	return p
}

func sessionClaims(c echo.Context) *service.SessionClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, _ := token.Claims.(*service.SessionClaims)
	return claims
}
