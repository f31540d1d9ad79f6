package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUserExists signals a registration conflict on username.
	ErrUserExists = errors.New("username already registered")
	// ErrUserNotFound is returned by repositories on a miss. The login path
	// never surfaces it: unknown user and wrong password collapse into
	// ErrInvalidCredentials so callers cannot enumerate usernames.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is the single outward signal for any failed login.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrInvalidUser covers rejected registration input (empty fields,
	// password outside the accepted length bounds).
	ErrInvalidUser = errors.New("invalid user data")
	// ErrTooManyAttempts signals that the login throttle tripped.
	ErrTooManyAttempts = errors.New("too many failed login attempts")
)

// ErrInvalidToken is the uniform unauthorized outcome for any rejected bearer
// token. The wrapped variants stay distinguishable for diagnostics; all of
// them satisfy errors.Is(err, ErrInvalidToken).
var (
	ErrInvalidToken          = errors.New("invalid token")
	ErrTokenExpired          = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrTokenSignatureInvalid = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)
	ErrTokenMalformed        = fmt.Errorf("%w: malformed claims", ErrInvalidToken)
)
