package domain

import "time"

// User models an account held by the credential store. PasswordHash is the
// encoded scrypt hash, never the plaintext, and never serialized.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the authorization context recovered from a verified bearer
// token. Downstream handlers treat it as opaque and trust it without
// re-verifying.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
