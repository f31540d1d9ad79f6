package ports

import (
	"context"
	"time"
)

// Audit actions.
const (
	AuditActionRegister = "register"
	AuditActionLogin    = "login"
)

// Audit outcomes.
const (
	AuditOutcomeSuccess   = "success"
	AuditOutcomeDenied    = "denied"
	AuditOutcomeDuplicate = "duplicate"
	AuditOutcomeThrottled = "throttled"
	AuditOutcomeError     = "error"
)

// AuditEvent describes one authentication decision. It never carries
// credentials or tokens.
type AuditEvent struct {
	Username string    `json:"username"`
	Action   string    `json:"action"`
	Outcome  string    `json:"outcome"`
	RemoteIP string    `json:"remote_ip,omitempty"`
	At       time.Time `json:"at"`
}

// AuditTrail accepts audit events from the request path. Record must be
// cheap and must never fail the request that produced the event.
type AuditTrail interface {
	Record(event AuditEvent)
}

// AuditRecorder persists audit events; called from dispatcher workers, off
// the request path.
type AuditRecorder interface {
	Record(ctx context.Context, event AuditEvent) error
}
