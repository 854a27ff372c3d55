package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/support-service/internal/domain"
)

func TestClassifyPriorityTiers(t *testing.T) {
	tests := []struct {
		name        string
		subject     string
		description string
		want        domain.TicketPriority
	}{
		{"urgent keyword", "URGENT: locked out", "need this fixed now", domain.TicketPriorityUrgent},
		{"lost money", "something happened", "I lost money on the last match", domain.TicketPriorityUrgent},
		{"high keyword", "app keeps crashing", "the crash happens on startup", domain.TicketPriorityHigh},
		{"medium keyword", "small problem", "things feel slow lately", domain.TicketPriorityMedium},
		{"no keyword defaults low", "question about features", "just wondering about upcoming content", domain.TicketPriorityLow},
		{"urgent beats high", "critical bug", "crash with data loss", domain.TicketPriorityUrgent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, priority := Classify(tc.subject, tc.description, domain.CategoryOther)
			assert.Equal(t, tc.want, priority)
		})
	}
}

func TestClassifyCategoryPrecedence(t *testing.T) {
	// billing terms win even when account and gameplay terms are present
	category, _ := Classify("payment for my account", "charge during the game", "")
	assert.Equal(t, domain.CategoryBilling, category)

	category, _ = Classify("login help", "cannot access my account", "")
	assert.Equal(t, domain.CategoryAccount, category)

	category, _ = Classify("weird match result", "my opponent disconnected", "")
	assert.Equal(t, domain.CategoryGameplay, category)

	category, _ = Classify("found a bug", "error in the settings screen", "")
	assert.Equal(t, domain.CategoryTechnical, category)

	category, _ = Classify("general question", "nothing specific here", "")
	assert.Equal(t, domain.CategoryOther, category)
}

func TestClassifyKeepsCallerCategory(t *testing.T) {
	category, _ := Classify("payment failed", "charge went through twice", domain.CategoryTechnical)
	assert.Equal(t, domain.CategoryTechnical, category)
}

func TestClassifyRederivesForOther(t *testing.T) {
	category, _ := Classify("payment failed", "charge went through twice", domain.CategoryOther)
	assert.Equal(t, domain.CategoryBilling, category)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	category, priority := Classify("URGENT: Cannot play game", "Critical BUG, the game crashes immediately", "")
	assert.Equal(t, domain.CategoryGameplay, category)
	assert.Equal(t, domain.TicketPriorityUrgent, priority)
}

func TestClassifyDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		category, priority := Classify("billing issue", "double charge on my card", "")
		assert.Equal(t, domain.CategoryBilling, category)
		assert.Equal(t, domain.TicketPriorityMedium, priority)
	}
}
