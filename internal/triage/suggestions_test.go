package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-service/internal/domain"
)

func ticketWith(subject, description string, category domain.TicketCategory) *domain.Ticket {
	return &domain.Ticket{Subject: subject, Description: description, Category: category}
}

func TestSuggestResponsesCategoryTemplates(t *testing.T) {
	suggestions := SuggestResponses(ticketWith("question", "how does ranking work", domain.CategoryGameplay))

	require.Len(t, suggestions, 3)
	assert.Equal(t, "Thank you for your feedback. We're reviewing the game session.", suggestions[0])
}

func TestSuggestResponsesContentTriggersFirst(t *testing.T) {
	suggestions := SuggestResponses(ticketWith("refund please", "I want my money back", domain.CategoryGameplay))

	require.Len(t, suggestions, 3)
	assert.Equal(t, "We've initiated a refund. It will appear in your account within 3-5 business days.", suggestions[0])
	// remaining slots filled from the category templates
	assert.Equal(t, "Thank you for your feedback. We're reviewing the game session.", suggestions[1])
}

func TestSuggestResponsesCapAtThree(t *testing.T) {
	suggestions := SuggestResponses(ticketWith("refund for bug", "error caused a bad charge, cannot login either", domain.CategoryBilling))

	assert.Len(t, suggestions, 3)
}

func TestSuggestResponsesDeduplicates(t *testing.T) {
	// the password trigger reply also appears in the account templates
	// with slightly different wording; exact duplicates must not repeat
	suggestions := SuggestResponses(ticketWith("password reset", "I forgot my password", domain.CategoryAccount))

	seen := map[string]int{}
	for _, s := range suggestions {
		seen[s]++
	}
	for reply, count := range seen {
		assert.Equal(t, 1, count, "duplicate suggestion: %s", reply)
	}
	assert.LessOrEqual(t, len(suggestions), 3)
}

func TestSuggestResponsesUnknownCategoryContentOnly(t *testing.T) {
	suggestions := SuggestResponses(ticketWith("bug report", "found an error", domain.CategoryOther))

	require.Len(t, suggestions, 1)
	assert.Equal(t, "Thank you for reporting this bug. Our development team has been notified.", suggestions[0])
}
