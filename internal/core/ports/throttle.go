package ports

import "context"

// LoginThrottle limits consecutive failed logins per key (username).
// Implementations are best-effort: a storage error must fail open so an
// unavailable throttle backend cannot lock every account out.
type LoginThrottle interface {
	// Allow reports whether another attempt for key is permitted.
	Allow(ctx context.Context, key string) (bool, error)
	// RecordFailure counts one failed attempt for key.
	RecordFailure(ctx context.Context, key string) error
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, key string) error
}
