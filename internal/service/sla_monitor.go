package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-service/internal/domain"
	"github.com/spec-kit/support-service/internal/events"
	"github.com/spec-kit/support-service/internal/repository"
	apperrors "github.com/spec-kit/support-service/pkg/util"
)

// SLAMonitor escalates tickets whose deadline has passed. Escalation
// happens at most once per ticket; the deadline itself is never
// recomputed, only priority and the escalated flag change.
type SLAMonitor struct {
	tickets   repository.TicketRepository
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewSLAMonitor constructs the monitor.
func NewSLAMonitor(tickets repository.TicketRepository, publisher events.Publisher, logger *zap.Logger) *SLAMonitor {
	return &SLAMonitor{
		tickets:   tickets,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source.
func (m *SLAMonitor) WithClock(now func() time.Time) *SLAMonitor {
	m.now = now
	return m
}

// CheckTicket escalates one ticket if its SLA is breached. The store
// re-reads live state inside the conditional write, so concurrent
// resolutions and repeated checks are safe no-ops.
func (m *SLAMonitor) CheckTicket(ctx context.Context, ticketID string) (bool, error) {
	now := m.now()
	ticket, oldPriority, escalated, err := m.tickets.EscalateIfBreached(ctx, ticketID, now)
	if err != nil {
		return false, apperrors.NewUpstreamFailure("ticket store", err)
	}
	if !escalated {
		return false, nil
	}

	breachedBy := now.Sub(ticket.SLADeadline) / time.Minute
	m.logger.Info("ticket escalated",
		zap.String("ticket_id", ticket.ID),
		zap.String("original_priority", string(oldPriority)),
		zap.Int64("breached_by_minutes", int64(breachedBy)))

	// Notification is best-effort; the escalation itself already
	// committed.
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketEscalated,
		TicketID:  ticket.ID,
		Timestamp: now,
		Payload: events.TicketEscalatedPayload{
			OriginalPriority:  oldPriority,
			NewPriority:       domain.TicketPriorityUrgent,
			SLADeadline:       ticket.SLADeadline.UTC().Format(time.RFC3339),
			BreachedByMinutes: int64(breachedBy),
		},
	}
	if m.publisher != nil {
		if err := m.publisher.Publish(ctx, event); err != nil {
			m.logger.Warn("publish escalation failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		}
	}
	return true, nil
}

// Sweep escalates every breached, non-terminal, not-yet-escalated
// ticket. Returns the number of escalations applied.
func (m *SLAMonitor) Sweep(ctx context.Context) (int, error) {
	candidates, err := m.tickets.List(ctx, repository.TicketFilter{
		Statuses: []domain.TicketStatus{
			domain.TicketStatusOpen,
			domain.TicketStatusInProgress,
			domain.TicketStatusWaitingCustomer,
		},
	})
	if err != nil {
		return 0, apperrors.NewUpstreamFailure("ticket store", err)
	}

	now := m.now()
	escalated := 0
	for i := range candidates {
		ticket := &candidates[i]
		if ticket.Escalated || ticket.SLADeadline.After(now) {
			continue
		}
		applied, err := m.CheckTicket(ctx, ticket.ID)
		if err != nil {
			m.logger.Warn("sla check failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
			continue
		}
		if applied {
			escalated++
		}
	}

	m.logger.Info("sla sweep complete", zap.Int("escalated", escalated), zap.Int("candidates", len(candidates)))
	return escalated, nil
}
