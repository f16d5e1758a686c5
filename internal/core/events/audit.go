package events

import (
	"context"
	"log/slog"
)

// AuditTypes are the access-changing events written to the audit log.
var AuditTypes = []string{
	EventTypeCompanyDeleted,
	EventTypeProjectDeleted,
	EventTypeUserCreated,
	EventTypeUserAccessUpdated,
}

// RegisterAuditLogger writes every access-changing event as one structured
// log record under the "audit" group.
func RegisterAuditLogger(bus *EventBus, logger *slog.Logger) {
	audit := logger.WithGroup("audit")
	for _, eventType := range AuditTypes {
		bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
			audit.InfoContext(ctx, "access change",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"occurred_at", event.OccurredAt(),
				"data", event.Payload())
			return nil
		})
	}
}
