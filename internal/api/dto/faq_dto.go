package dto

import (
	"time"

	"github.com/spec-kit/support-service/internal/domain"
)

// CreateFAQRequest payload.
type CreateFAQRequest struct {
	Question        string             `json:"question"`
	Answer          string             `json:"answer"`
	Category        domain.FAQCategory `json:"category"`
	Tags            []string           `json:"tags"`
	RelatedArticles []string           `json:"relatedArticles"`
}

// UpdateFAQRequest payload; each field independently optional.
type UpdateFAQRequest struct {
	Question        *string             `json:"question"`
	Answer          *string             `json:"answer"`
	Category        *domain.FAQCategory `json:"category"`
	Tags            []string            `json:"tags"`
	RelatedArticles []string            `json:"relatedArticles"`
	Published       *bool               `json:"published"`
}

// RateFAQRequest payload. A pointer keeps "missing" distinct from false.
type RateFAQRequest struct {
	Helpful *bool `json:"helpful"`
}

// SuggestFAQRequest asks for articles relevant to ticket text.
type SuggestFAQRequest struct {
	Subject     string             `json:"subject"`
	Description string             `json:"description"`
	Category    domain.FAQCategory `json:"category,omitempty"`
}

// FAQResponse provides full article info.
type FAQResponse struct {
	FAQID           string             `json:"faqId"`
	Question        string             `json:"question"`
	Answer          string             `json:"answer"`
	Category        domain.FAQCategory `json:"category"`
	Tags            []string           `json:"tags"`
	Keywords        []string           `json:"keywords"`
	RelatedArticles []string           `json:"relatedArticles"`
	Published       bool               `json:"published"`
	ViewCount       int64              `json:"viewCount"`
	HelpfulCount    int64              `json:"helpfulCount"`
	NotHelpfulCount int64              `json:"notHelpfulCount"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
	CreatedBy       string             `json:"createdBy"`
}

// ScoredFAQResponse decorates an article with its search relevance.
type ScoredFAQResponse struct {
	FAQResponse
	Relevance float64 `json:"relevance"`
}

// FAQSuggestionResponse is a compact suggestion for a ticket.
type FAQSuggestionResponse struct {
	FAQID     string  `json:"faqId"`
	Question  string  `json:"question"`
	Answer    string  `json:"answer"`
	Relevance float64 `json:"relevance"`
}
