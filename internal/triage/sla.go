package triage

import (
	"time"

	"github.com/spec-kit/support-service/internal/domain"
)

var slaDurations = map[domain.TicketPriority]time.Duration{
	domain.TicketPriorityUrgent: 4 * time.Hour,
	domain.TicketPriorityHigh:   24 * time.Hour,
	domain.TicketPriorityMedium: 48 * time.Hour,
	domain.TicketPriorityLow:    72 * time.Hour,
}

// SLADeadline returns the absolute deadline for a ticket of the given
// priority created at now. The deadline is fixed at creation and is not
// recomputed later, including on escalation.
func SLADeadline(priority domain.TicketPriority, now time.Time) time.Time {
	d, ok := slaDurations[priority]
	if !ok {
		d = slaDurations[domain.TicketPriorityLow]
	}
	return now.Add(d)
}
