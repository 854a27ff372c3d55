package triage

import (
	"strings"

	"github.com/spec-kit/support-service/internal/domain"
)

// Priority keyword tiers, checked in order. The first tier with any
// match wins; no match defaults to low.
var (
	urgentKeywords = []string{"urgent", "critical", "cannot play", "lost money", "hacked", "security"}
	highKeywords   = []string{"bug", "error", "crash", "not working", "broken"}
	mediumKeywords = []string{"slow", "issue", "problem", "help"}
)

// Category keyword sets, checked in fixed precedence order:
// billing -> account -> gameplay -> technical.
var categoryKeywords = []struct {
	category domain.TicketCategory
	terms    []string
}{
	{domain.CategoryBilling, []string{"payment", "billing", "charge"}},
	{domain.CategoryAccount, []string{"account", "login", "password"}},
	{domain.CategoryGameplay, []string{"game", "match", "opponent"}},
	{domain.CategoryTechnical, []string{"bug", "error", "crash"}},
}

// Classify derives category and priority from free-text subject and
// description. A caller-supplied category other than "other" is kept
// as-is. Pure heuristic, deterministic for identical input.
func Classify(subject, description string, category domain.TicketCategory) (domain.TicketCategory, domain.TicketPriority) {
	text := strings.ToLower(subject + " " + description)

	priority := domain.TicketPriorityLow
	switch {
	case containsAny(text, urgentKeywords):
		priority = domain.TicketPriorityUrgent
	case containsAny(text, highKeywords):
		priority = domain.TicketPriorityHigh
	case containsAny(text, mediumKeywords):
		priority = domain.TicketPriorityMedium
	}

	if category == "" || category == domain.CategoryOther {
		category = domain.CategoryOther
		for _, set := range categoryKeywords {
			if containsAny(text, set.terms) {
				category = set.category
				break
			}
		}
	}

	return category, priority
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
