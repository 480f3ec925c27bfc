package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role allowed on the dashboard API
const RoleAdmin = "admin"

// refreshMargin renews a minted token before the backend would reject it
const refreshMargin = time.Minute

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("forbidden")
)

// TokenSource supplies the bearer token for backend calls
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token, e.g. from BACKEND_TOKEN
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

// ServiceTokenSource mints HS256 admin tokens and reuses each until it
// is close to expiry
type ServiceTokenSource struct {
	secret  []byte
	subject string
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewServiceTokenSource(secret, subject string, ttl time.Duration) *ServiceTokenSource {
	if ttl <= refreshMargin {
		ttl = 2 * refreshMargin
	}
	return &ServiceTokenSource{
		secret:  []byte(secret),
		subject: subject,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *ServiceTokenSource) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Add(refreshMargin).Before(s.expires) {
		return s.token, nil
	}

	expires := now.Add(s.ttl)
	claims := jwt.MapClaims{
		"sub":  s.subject,
		"role": RoleAdmin,
		"iat":  now.Unix(),
		"exp":  expires.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign service token: %w", err)
	}

	s.token = signed
	s.expires = expires
	return signed, nil
}

// ParseBearer validates an Authorization header value and returns its claims.
// When roles are given the token's role claim must be one of them.
func ParseBearer(header, secret string, roles ...string) (jwt.MapClaims, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return nil, ErrMissingToken
	}

	parts := strings.Fields(raw)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, ErrInvalidToken
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if len(roles) > 0 {
		role, _ := claims["role"].(string)
		for _, allowed := range roles {
			if role == allowed {
				return claims, nil
			}
		}
		return nil, ErrForbidden
	}
	return claims, nil
}
