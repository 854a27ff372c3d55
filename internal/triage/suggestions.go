package triage

import (
	"strings"

	"github.com/spec-kit/support-service/internal/domain"
)

const maxSuggestions = 3

// Content-triggered replies, matched against the lowercased ticket text.
var contentReplies = []struct {
	trigger []string
	reply   string
}{
	{[]string{"refund"}, "We've initiated a refund. It will appear in your account within 3-5 business days."},
	{[]string{"bug", "error"}, "Thank you for reporting this bug. Our development team has been notified."},
	{[]string{"cannot login", "password"}, "We've sent a password reset link to your registered email address."},
}

var categoryTemplates = map[domain.TicketCategory][]string{
	domain.CategoryTechnical: {
		"Thank you for reporting this issue. Our technical team is investigating.",
		"Have you tried clearing your browser cache and cookies?",
		"Please provide your browser version and operating system.",
	},
	domain.CategoryGameplay: {
		"Thank you for your feedback. We're reviewing the game session.",
		"Can you provide the Game ID for us to investigate?",
		"Our team will review the match replay and get back to you.",
	},
	domain.CategoryAccount: {
		"For security reasons, please verify your email address.",
		"We've sent a password reset link to your registered email.",
		"Your account has been reviewed and is now active.",
	},
	domain.CategoryBilling: {
		"We've processed your refund request. Please allow 3-5 business days.",
		"Your payment method has been updated successfully.",
		"Please provide your transaction ID for us to investigate.",
	},
}

// SuggestResponses generates up to 3 distinct canned replies for a
// ticket. Content-triggered replies come first, then category templates
// until the limit is reached. Deduplicated by exact string equality.
func SuggestResponses(ticket *domain.Ticket) []string {
	text := strings.ToLower(ticket.Subject + " " + ticket.Description)

	suggestions := make([]string, 0, maxSuggestions)
	seen := make(map[string]struct{})
	add := func(reply string) {
		if _, dup := seen[reply]; dup || len(suggestions) >= maxSuggestions {
			return
		}
		seen[reply] = struct{}{}
		suggestions = append(suggestions, reply)
	}

	for _, cr := range contentReplies {
		if containsAny(text, cr.trigger) {
			add(cr.reply)
		}
	}
	for _, tmpl := range categoryTemplates[ticket.Category] {
		add(tmpl)
	}

	return suggestions
}
