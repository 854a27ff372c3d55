package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen            TicketStatus = "open"
	TicketStatusInProgress      TicketStatus = "in_progress"
	TicketStatusWaitingCustomer TicketStatus = "waiting_customer"
	TicketStatusResolved        TicketStatus = "resolved"
	TicketStatusClosed          TicketStatus = "closed"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketCategory enumerates support domains.
type TicketCategory string

const (
	CategoryTechnical TicketCategory = "technical"
	CategoryGameplay  TicketCategory = "gameplay"
	CategoryAccount   TicketCategory = "account"
	CategoryBilling   TicketCategory = "billing"
	CategoryOther     TicketCategory = "other"
)

// ThreadEntry is a single append-only response or internal note.
type ThreadEntry struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Author    string    `json:"author"`
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID                  string
	OwnerID             string
	Subject             string
	Description         string
	Category            TicketCategory
	Priority            TicketPriority
	Status              TicketStatus
	SLADeadline         time.Time
	Escalated           bool
	AssignedTo          *string
	Responses           []ThreadEntry
	InternalNotes       []ThreadEntry
	ResponseSuggestions []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsTerminal reports whether the ticket reached a final status.
func (t *Ticket) IsTerminal() bool {
	return t.Status == TicketStatusResolved || t.Status == TicketStatusClosed
}

// ValidStatus reports whether s is a known status value.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusWaitingCustomer,
		TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority value.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// ValidTicketCategory reports whether c is a known ticket category.
func ValidTicketCategory(c TicketCategory) bool {
	switch c {
	case CategoryTechnical, CategoryGameplay, CategoryAccount, CategoryBilling, CategoryOther:
		return true
	}
	return false
}
