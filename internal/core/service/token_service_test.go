package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devforge/auth-service/internal/core/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokenService(t *testing.T, ttl time.Duration) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testSecret, "HS256", ttl)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestNewTokenService_Validation(t *testing.T) {
	if _, err := NewTokenService("", "HS256", time.Minute); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewTokenService("short", "HS256", time.Minute); err == nil {
		t.Fatalf("expected error for short secret")
	}
	if _, err := NewTokenService(testSecret, "RS256", time.Minute); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
	if _, err := NewTokenService(testSecret, "none", time.Minute); err == nil {
		t.Fatalf("expected error for none algorithm")
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := newTestTokenService(t, 30*time.Minute)

	token, err := svc.Issue(&domain.User{ID: "u-42", Username: "alice"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	identity, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.Username != "alice" || identity.UserID != "u-42" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestTokenService_Issue_RequiresSubject(t *testing.T) {
	svc := newTestTokenService(t, time.Minute)
	if _, err := svc.Issue(nil); err == nil {
		t.Fatalf("expected error for nil user")
	}
	if _, err := svc.Issue(&domain.User{ID: "u-1"}); err == nil {
		t.Fatalf("expected error for empty username")
	}
}

func TestTokenService_Verify_Expired(t *testing.T) {
	svc := newTestTokenService(t, 30*time.Minute)

	issuedAt := time.Now().UTC()
	svc.now = func() time.Time { return issuedAt }
	token, err := svc.Issue(&domain.User{ID: "u-1", Username: "bob"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Just before expiry the token still verifies.
	svc.now = func() time.Time { return issuedAt.Add(30*time.Minute - time.Second) }
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("token rejected before expiry: %v", err)
	}

	// Just after expiry it fails with the expiry cause.
	svc.now = func() time.Time { return issuedAt.Add(30*time.Minute + time.Second) }
	_, err = svc.Verify(token)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expired error does not wrap ErrInvalidToken: %v", err)
	}
}

func TestTokenService_Verify_TamperedSignature(t *testing.T) {
	svc := newTestTokenService(t, time.Minute)

	token, err := svc.Issue(&domain.User{ID: "u-1", Username: "carol"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip the last character of the signature segment.
	last := token[len(token)-1]
	flip := byte('A')
	if last == 'A' {
		flip = 'B'
	}
	_, err = svc.Verify(token[:len(token)-1] + string(flip))
	if !errors.Is(err, domain.ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}

	// Appending a character must also break verification.
	if _, err := svc.Verify(token + "x"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for extended token, got %v", err)
	}
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	issuer := newTestTokenService(t, time.Minute)
	verifier, err := NewTokenService(strings.Repeat("z", 32), "HS256", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := issuer.Issue(&domain.User{ID: "u-1", Username: "dave"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestTokenService_Verify_Malformed(t *testing.T) {
	svc := newTestTokenService(t, time.Minute)

	for _, token := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		_, err := svc.Verify(token)
		if !errors.Is(err, domain.ErrTokenMalformed) {
			t.Fatalf("token %q: expected ErrTokenMalformed, got %v", token, err)
		}
	}
}

func TestTokenService_Verify_MissingExpiry(t *testing.T) {
	svc := newTestTokenService(t, time.Minute)

	// A token signed with the right secret but no exp claim must be rejected.
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "eve"})
	token, err := raw.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected rejection of token without expiry, got %v", err)
	}
}

func TestTokenService_Verify_MissingSubject(t *testing.T) {
	svc := newTestTokenService(t, time.Minute)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for missing subject, got %v", err)
	}
}

func TestTokenService_Verify_AlgorithmPinned(t *testing.T) {
	svc := newTestTokenService(t, time.Minute)

	// HS384-signed token with the same secret must not pass an HS256 verifier.
	raw := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{
		"sub": "mallory",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected rejection of foreign algorithm, got %v", err)
	}
}
