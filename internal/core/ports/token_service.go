package ports

import "github.com/devforge/auth-service/internal/core/domain"

// TokenIssuer mints a signed, time-limited bearer token for a user. Issuance
// is stateless: nothing is recorded server-side and tokens cannot be revoked
// before expiry.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenVerifier checks a presented bearer token and recovers the identity it
// binds. Verification is a pure function of (token, secret, current time).
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}
