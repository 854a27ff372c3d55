package triage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/support-service/internal/domain"
)

func TestSLADeadlinePerPriority(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		priority domain.TicketPriority
		want     time.Duration
	}{
		{domain.TicketPriorityUrgent, 4 * time.Hour},
		{domain.TicketPriorityHigh, 24 * time.Hour},
		{domain.TicketPriorityMedium, 48 * time.Hour},
		{domain.TicketPriorityLow, 72 * time.Hour},
	}

	for _, tc := range tests {
		t.Run(string(tc.priority), func(t *testing.T) {
			deadline := SLADeadline(tc.priority, now)
			assert.Equal(t, now.Add(tc.want), deadline)
		})
	}
}

func TestSLADeadlineUnknownPriorityFallsBackToLow(t *testing.T) {
	now := time.Now()
	deadline := SLADeadline(domain.TicketPriority("bogus"), now)
	assert.Equal(t, now.Add(72*time.Hour), deadline)
}
