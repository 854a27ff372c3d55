package events

import (
	"time"

	"github.com/spec-kit/support-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketEscalated     EventType = "ticket_escalated"
)

// Event represents a notification emitted by services. Delivery is
// fire-and-forget; no consumer acknowledgment is expected.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	OwnerID  string                `json:"owner_id"`
	Subject  string                `json:"subject"`
	Priority domain.TicketPriority `json:"priority"`
	Category domain.TicketCategory `json:"category"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	OriginalPriority  domain.TicketPriority `json:"original_priority"`
	NewPriority       domain.TicketPriority `json:"new_priority"`
	SLADeadline       string                `json:"sla_deadline"`
	BreachedByMinutes int64                 `json:"breached_by_minutes"`
}
