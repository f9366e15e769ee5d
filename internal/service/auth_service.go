package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"craftstore/internal/apperr"
	"craftstore/internal/entity"
	"craftstore/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const sessionTTL = 24 * time.Hour

// SessionClaims is the JWT payload issued at login.
type SessionClaims struct {
	UserID    int         `json:"user_id"`
	Role      entity.Role `json:"role"`
	SessionID string      `json:"session_id"`
	jwt.RegisteredClaims
}

// AuthService issues sessions and resolves request principals. Sessions live
// in redis so logout and deactivation revoke them before the JWT expires.
type AuthService struct {
	users  repository.UserRepository
	rdb    *redis.Client
	secret []byte
}

func NewAuthService(users repository.UserRepository, rdb *redis.Client, secret []byte) *AuthService {
	return &AuthService{users: users, rdb: rdb, secret: secret}
}

func (s *AuthService) Secret() []byte { return s.secret }

// Register creates a customer account.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	if name == "" || email == "" || len(password) < 6 {
		return nil, apperr.New(apperr.KindValidation, "name, email and a password of at least 6 characters are required")
	}
	return s.createUser(ctx, name, email, password, entity.RoleCustomer)
}

// CreateStaff creates an account with one of the staff roles.
func (s *AuthService) CreateStaff(ctx context.Context, name, email, password string, role entity.Role) (*entity.User, error) {
	if !role.Valid() || role == entity.RoleCustomer {
		return nil, apperr.Newf(apperr.KindValidation, "invalid staff role %q", role)
	}
	if name == "" || email == "" || len(password) < 6 {
		return nil, apperr.New(apperr.KindValidation, "name, email and a password of at least 6 characters are required")
	}
	return s.createUser(ctx, name, email, password, role)
}

func (s *AuthService) createUser(ctx context.Context, name, email, password string, role entity.Role) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{Name: name, Email: email, Password: string(hash), Role: role, Active: true}
	if err := s.users.Create(ctx, user); err != nil {
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return "", apperr.New(apperr.KindUnauthorized, "invalid credentials")
		}
		return "", err
	}
	if !user.Active {
		return "", apperr.New(apperr.KindForbidden, "account is deactivated")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", apperr.New(apperr.KindUnauthorized, "invalid credentials")
	}

	sid := uuid.NewString()
	claims := &SessionClaims{
		UserID:    user.ID,
		Role:      user.Role,
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, sessionKey(sid), user.ID, sessionTTL).Err(); err != nil {
			logger.Error().Err(err).Msg("Error storing session")
			return "", err
		}
	}
	return token, nil
}

// Logout revokes the redis session referenced by the token's claims.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(sessionID)).Err()
}

// Principal resolves validated claims into a request-scoped principal. The
// account's active flag is re-read so deactivation takes effect immediately.
func (s *AuthService) Principal(ctx context.Context, claims *SessionClaims) (*entity.Principal, error) {
	if s.rdb != nil {
		_, err := s.rdb.Get(ctx, sessionKey(claims.SessionID)).Result()
		if errors.Is(err, redis.Nil) {
			return nil, apperr.New(apperr.KindUnauthorized, "session expired or revoked")
		}
		if err != nil {
			return nil, err
		}
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.New(apperr.KindUnauthorized, "unknown account")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperr.New(apperr.KindForbidden, "account is deactivated")
	}
	return &entity.Principal{UserID: user.ID, Role: user.Role, Active: user.Active}, nil
}

// SetUserActive toggles an account. Deactivation leaves historical orders
// untouched; the principal check rejects the account on its next request.
func (s *AuthService) SetUserActive(ctx context.Context, userID int, active bool) error {
	return s.users.SetActive(ctx, userID, active)
}

func sessionKey(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}
