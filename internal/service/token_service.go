package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/guttosm/image-proxy/config"
	"github.com/guttosm/image-proxy/internal/domain/dto"
)

var (
	// ErrInvalidToken is returned for malformed, expired or badly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrAuthDisabled is returned when no admin secret is configured.
	ErrAuthDisabled = errors.New("admin authentication is disabled")
)

// DefaultAdminTokenTTL is used when no TTL is configured.
const DefaultAdminTokenTTL = 24 * time.Hour

// TokenService issues and validates admin bearer tokens for the management API.
type TokenService interface {
	// GenerateToken signs a token for name with the configured TTL.
	GenerateToken(name string, roles []string) (*dto.TokenResponse, error)
	// ValidateToken validates a token and returns its claims.
	ValidateToken(tokenString string) (*dto.Claims, error)
}

// ClaimsWithJWT embeds the admin claims in the registered JWT claims.
type ClaimsWithJWT struct {
	dto.Claims
	jwt.RegisteredClaims
}

// TokenServiceImpl implements TokenService with HS256.
type TokenServiceImpl struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

var _ TokenService = (*TokenServiceImpl)(nil)

// NewTokenService creates a TokenService from the auth configuration.
func NewTokenService(cfg config.AuthConfig) *TokenServiceImpl {
	ttl := cfg.AdminTokenTTL
	if ttl <= 0 {
		ttl = DefaultAdminTokenTTL
	}
	return &TokenServiceImpl{
		secretKey: []byte(cfg.AdminJWTSecret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// GenerateToken signs a new admin token.
func (s *TokenServiceImpl) GenerateToken(name string, roles []string) (*dto.TokenResponse, error) {
	if len(s.secretKey) == 0 {
		return nil, ErrAuthDisabled
	}

	now := s.now()
	claims := &ClaimsWithJWT{
		Claims: dto.Claims{
			Name:  name,
			Roles: roles,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   name,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: signed, ExpiresIn: int64(s.ttl.Seconds())}, nil
}

// ValidateToken parses tokenString and returns its claims.
func (s *TokenServiceImpl) ValidateToken(tokenString string) (*dto.Claims, error) {
	if len(s.secretKey) == 0 {
		return nil, ErrAuthDisabled
	}

	token, err := jwt.ParseWithClaims(tokenString, &ClaimsWithJWT{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claimsWithJWT, ok := token.Claims.(*ClaimsWithJWT); ok && token.Valid {
		return &claimsWithJWT.Claims, nil
	}
	return nil, ErrInvalidToken
}
