package service

import (
	"context"
	"errors"
	"time"

	"github.com/devforge/auth-service/internal/api/metrics"
	"github.com/devforge/auth-service/internal/core/domain"
	"github.com/devforge/auth-service/internal/core/ports"
	"github.com/devforge/auth-service/internal/pkg/password"
)

const minPasswordLen = 8

// AuthService implements registration, login, and identity lookup on top of
// a UserRepository. Login collapses "unknown user" and "wrong password" into
// one outward signal, in message and in cost.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenIssuer
	throttle ports.LoginThrottle // optional
	audit    ports.AuditTrail    // optional

	// decoyHash absorbs a scrypt verification when the username does not
	// exist, so the miss path costs the same as a real password check.
	decoyHash string
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenIssuer) (*AuthService, error) {
	decoy, err := password.Hash("decoy-credential-equalizer")
	if err != nil {
		return nil, err
	}
	return &AuthService{repo: repo, tokens: tokens, decoyHash: decoy}, nil
}

// WithThrottle attaches a login throttle. Without one, logins are unlimited.
func (s *AuthService) WithThrottle(t ports.LoginThrottle) *AuthService {
	s.throttle = t
	return s
}

// WithAudit attaches an audit trail for authentication decisions.
func (s *AuthService) WithAudit(a ports.AuditTrail) *AuthService {
	s.audit = a
	return s
}

// Register creates a new account. The duplicate check is the repository's:
// it must be atomic with the insert, so concurrent registrations of one
// username produce exactly one account.
func (s *AuthService) Register(ctx context.Context, username, passwd, email string) (*domain.User, error) {
	if username == "" || passwd == "" || len(passwd) < minPasswordLen {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidUser
	}

	start := time.Now()
	hash, err := password.Hash(passwd)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidUser
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			s.record(username, ports.AuditActionRegister, ports.AuditOutcomeDuplicate)
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
			s.record(username, ports.AuditActionRegister, ports.AuditOutcomeError)
		}
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	s.record(username, ports.AuditActionRegister, ports.AuditOutcomeSuccess)
	return created, nil
}

// Login authenticates the credential pair and mints a bearer token. Every
// failure caused by the caller comes back as domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, passwd string) (string, *domain.User, error) {
	if username == "" || passwd == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, username)
		if err == nil && !allowed {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			s.record(username, ports.AuditActionLogin, ports.AuditOutcomeThrottled)
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		// Burn the same scrypt cost as a real verification before answering,
		// then answer exactly like a wrong password.
		password.Verify(passwd, s.decoyHash)
		return "", nil, s.loginDenied(ctx, username)
	case err != nil:
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, err
	}

	start := time.Now()
	ok := password.Verify(passwd, user.PasswordHash)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	if !ok {
		return "", nil, s.loginDenied(ctx, username)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, err
	}

	if s.throttle != nil {
		_ = s.throttle.Reset(ctx, username)
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.record(username, ports.AuditActionLogin, ports.AuditOutcomeSuccess)
	return token, user, nil
}

// CurrentUser resolves a verified token identity back to the stored account.
// A subject that no longer exists yields the uniform unauthorized signal.
func (s *AuthService) CurrentUser(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if identity.Username == "" {
		return nil, domain.ErrTokenMalformed
	}
	user, err := s.repo.FindByUsername(ctx, identity.Username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidToken
	}
	return user, err
}

func (s *AuthService) loginDenied(ctx context.Context, username string) error {
	if s.throttle != nil {
		_ = s.throttle.RecordFailure(ctx, username)
	}
	metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
	s.record(username, ports.AuditActionLogin, ports.AuditOutcomeDenied)
	return domain.ErrInvalidCredentials
}

func (s *AuthService) record(username, action, outcome string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ports.AuditEvent{
		Username: username,
		Action:   action,
		Outcome:  outcome,
		At:       time.Now().UTC(),
	})
}
