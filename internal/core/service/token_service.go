package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devforge/auth-service/internal/api/metrics"
	"github.com/devforge/auth-service/internal/core/domain"
)

const minSecretLen = 32

var signingMethods = map[string]jwt.SigningMethod{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// accessClaims is the payload minted into every bearer token. Subject carries
// the username; UserID the storage identifier.
type accessClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id,omitempty"`
}

// TokenService mints and verifies bearer tokens. It holds the process-wide
// signing secret, read-only after construction, and keeps no per-token state:
// any instance can verify a token minted by any other.
type TokenService struct {
	method jwt.SigningMethod
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a TokenService for a symmetric algorithm
// (HS256/HS384/HS512). It refuses an empty or short secret and an unknown
// algorithm so a misconfigured process cannot start signing tokens.
func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", minSecretLen)
	}
	method, ok := signingMethods[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &TokenService{
		method: method,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token binding the user's identity. Expiry is issued-at plus
// the configured lifetime.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	if user == nil || user.Username == "" {
		return "", domain.ErrInvalidUser
	}

	now := s.now().UTC()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: user.ID,
	}

	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify checks the signature and expiry of a presented token and recovers
// the identity it binds. Signature mismatch, expiry, and malformed claims are
// distinguishable via errors.Is against the domain token errors; all of them
// wrap domain.ErrInvalidToken and map to one outward 401.
func (s *TokenService) Verify(token string) (domain.Identity, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	parsed, err := parser.ParseWithClaims(token, &accessClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		mapped := mapTokenError(err)
		metrics.TokenVerificationsTotal.WithLabelValues(verifyResult(mapped)).Inc()
		return domain.Identity{}, mapped
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		metrics.TokenVerificationsTotal.WithLabelValues("malformed").Inc()
		return domain.Identity{}, domain.ErrTokenMalformed
	}

	metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
	return domain.Identity{UserID: claims.UserID, Username: claims.Subject}, nil
}

// mapTokenError translates jwt library errors into the domain taxonomy.
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", domain.ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", domain.ErrTokenSignatureInvalid, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrTokenMalformed, err)
	}
}

func verifyResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignatureInvalid):
		return "signature"
	default:
		return "malformed"
	}
}
