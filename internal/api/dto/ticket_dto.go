package dto

import (
	"time"

	"github.com/spec-kit/support-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority,omitempty"`
}

// CreateTicketResponse returns the new identity plus derived fields.
type CreateTicketResponse struct {
	TicketID    string                `json:"ticketId"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    domain.TicketCategory `json:"category"`
	SLADeadline string                `json:"slaDeadline"`
}

// UpdateTicketRequest payload; response and internalNotes append.
type UpdateTicketRequest struct {
	Status        *domain.TicketStatus `json:"status"`
	AssignedTo    *string              `json:"assignedTo"`
	Response      *string              `json:"response"`
	InternalNotes *string              `json:"internalNotes"`
}

// ThreadEntryResponse represents one response or note.
type ThreadEntryResponse struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Author    string    `json:"author"`
}

// TicketResponse provides full ticket info.
type TicketResponse struct {
	TicketID            string                `json:"ticketId"`
	OwnerID             string                `json:"userId"`
	Subject             string                `json:"subject"`
	Description         string                `json:"description"`
	Category            domain.TicketCategory `json:"category"`
	Priority            domain.TicketPriority `json:"priority"`
	Status              domain.TicketStatus   `json:"status"`
	SLADeadline         string                `json:"slaDeadline"`
	Escalated           bool                  `json:"escalated"`
	AssignedTo          *string               `json:"assignedTo"`
	Responses           []ThreadEntryResponse `json:"responses"`
	InternalNotes       []ThreadEntryResponse `json:"internalNotes"`
	ResponseSuggestions []string              `json:"responseSuggestions"`
	CreatedAt           time.Time             `json:"createdAt"`
	UpdatedAt           time.Time             `json:"updatedAt"`
}
