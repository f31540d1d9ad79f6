package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/devforge/auth-service/internal/core/ports"
)

// LogRecorder writes audit events to the structured log. Used when no audit
// store is configured, so the trail still lands somewhere durable enough for
// development and small deployments.
type LogRecorder struct {
	log zerolog.Logger
}

func NewLogRecorder(log zerolog.Logger) *LogRecorder {
	return &LogRecorder{log: log}
}

func (r *LogRecorder) Record(_ context.Context, event ports.AuditEvent) error {
	r.log.Info().
		Str("username", event.Username).
		Str("action", event.Action).
		Str("outcome", event.Outcome).
		Str("remote_ip", event.RemoteIP).
		Time("at", event.At).
		Msg("auth audit event")
	return nil
}
