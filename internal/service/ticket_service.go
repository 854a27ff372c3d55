package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-service/internal/domain"
	"github.com/spec-kit/support-service/internal/events"
	"github.com/spec-kit/support-service/internal/queue"
	"github.com/spec-kit/support-service/internal/repository"
	"github.com/spec-kit/support-service/internal/triage"
	apperrors "github.com/spec-kit/support-service/pkg/util"
)

// TicketService coordinates the ticket lifecycle: intake with automatic
// triage, partial updates with transition checks, and listing.
type TicketService struct {
	tickets   repository.TicketRepository
	tasks     queue.TaskQueue
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Tasks      queue.TaskQueue
	Publisher  events.Publisher
	Logger     *zap.Logger
}

// TicketCreateInput describes the ticket intake payload.
type TicketCreateInput struct {
	Subject     string
	Description string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
}

// TicketUpdateInput describes a partial ticket update. Response and
// InternalNote are appended, never replaced.
type TicketUpdateInput struct {
	Status       *domain.TicketStatus
	AssignedTo   *string
	Response     *string
	InternalNote *string
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
	Category *domain.TicketCategory
	OwnerID  *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:   deps.TicketRepo,
		tasks:     deps.Tasks,
		publisher: deps.Publisher,
		logger:    deps.Logger,
		now:       time.Now,
	}
}

// WithClock overrides the time source.
func (s *TicketService) WithClock(now func() time.Time) *TicketService {
	s.now = now
	return s
}

// CreateTicket validates intake, derives category, priority and the SLA
// deadline, persists the ticket, enqueues follow-up work and publishes a
// creation event. Queue and notification failures are non-critical and
// do not fail the create.
func (s *TicketService) CreateTicket(ctx context.Context, ownerID string, input TicketCreateInput) (*domain.Ticket, error) {
	if err := validateCreateTicket(ownerID, input); err != nil {
		return nil, err
	}

	category, priority := triage.Classify(input.Subject, input.Description, input.Category)
	if input.Priority != "" {
		priority = input.Priority
	}

	now := s.now()
	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Subject:     strings.TrimSpace(input.Subject),
		Description: strings.TrimSpace(input.Description),
		Category:    category,
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		SLADeadline: triage.SLADeadline(priority, now),
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return nil, apperrors.NewConflict("ticket id already exists", map[string]any{"ticket_id": ticket.ID})
		}
		return nil, apperrors.NewUpstreamFailure("ticket store", err)
	}

	if err := s.tasks.Enqueue(ctx, queue.WorkItem{
		Action:   queue.ActionNewTicket,
		TicketID: ticket.ID,
		Priority: ticket.Priority,
		Category: ticket.Category,
	}); err != nil {
		s.logger.Warn("enqueue new_ticket failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			OwnerID:  ticket.OwnerID,
			Subject:  ticket.Subject,
			Priority: ticket.Priority,
			Category: ticket.Category,
		},
	})

	return ticket, nil
}

// GetTicket fetches one ticket.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.NewUpstreamFailure("ticket store", err)
	}
	return ticket, nil
}

// UpdateTicket applies a partial update. Status changes are checked
// against the lifecycle state machine; responses and notes are appended
// atomically with the caller identity as author.
func (s *TicketService) UpdateTicket(ctx context.Context, id, author string, input TicketUpdateInput) (*domain.Ticket, error) {
	if err := validateUpdateTicket(input); err != nil {
		return nil, err
	}

	current, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil && !allowedTransition(current.Status, *input.Status) {
		return nil, apperrors.NewValidationError("invalid status transition", map[string]any{
			"from": current.Status,
			"to":   *input.Status,
		})
	}

	patch := repository.TicketPatch{
		Status:     input.Status,
		AssignedTo: input.AssignedTo,
	}
	if author == "" {
		author = domain.SystemAuthor
	}
	now := s.now()
	if input.Response != nil {
		patch.AppendResponse = &domain.ThreadEntry{Text: *input.Response, Timestamp: now, Author: author}
	}
	if input.InternalNote != nil {
		patch.AppendNote = &domain.ThreadEntry{Text: *input.InternalNote, Timestamp: now, Author: author}
	}

	updated, err := s.tickets.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.NewUpstreamFailure("ticket store", err)
	}

	if input.Status != nil && *input.Status != current.Status {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: updated.ID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: current.Status,
				NewStatus: updated.Status,
			},
		})
	}

	return updated, nil
}

// ListTickets returns tickets matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	if err := validateListFilter(filter); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{
		Status:   filter.Status,
		Priority: filter.Priority,
		Category: filter.Category,
		OwnerID:  filter.OwnerID,
	})
	if err != nil {
		return nil, apperrors.NewUpstreamFailure("ticket store", err)
	}
	return tickets, nil
}

// ListUserTickets returns all tickets owned by a user.
func (s *TicketService) ListUserTickets(ctx context.Context, ownerID string) ([]domain.Ticket, error) {
	return s.ListTickets(ctx, TicketListFilter{OwnerID: &ownerID})
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

const (
	maxSubjectLen     = 200
	minSubjectLen     = 5
	maxDescriptionLen = 5000
	minDescriptionLen = 10
	maxResponseLen    = 5000
	maxNoteLen        = 2000
)

func validateCreateTicket(ownerID string, input TicketCreateInput) error {
	details := map[string]any{}
	if strings.TrimSpace(ownerID) == "" {
		details["owner_id"] = "required"
	}
	subject := strings.TrimSpace(input.Subject)
	if len(subject) < minSubjectLen || len(subject) > maxSubjectLen {
		details["subject"] = "must be 5-200 characters"
	}
	description := strings.TrimSpace(input.Description)
	if len(description) < minDescriptionLen || len(description) > maxDescriptionLen {
		details["description"] = "must be 10-5000 characters"
	}
	if !domain.ValidTicketCategory(input.Category) {
		details["category"] = "must be one of technical, gameplay, account, billing, other"
	}
	if input.Priority != "" && !domain.ValidPriority(input.Priority) {
		details["priority"] = "must be one of low, medium, high, urgent"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket payload", details)
	}
	return nil
}

func validateUpdateTicket(input TicketUpdateInput) error {
	if input.Status == nil && input.AssignedTo == nil && input.Response == nil && input.InternalNote == nil {
		return apperrors.NewValidationError("no fields to update", nil)
	}
	details := map[string]any{}
	if input.Status != nil && !domain.ValidStatus(*input.Status) {
		details["status"] = "unknown status"
	}
	if input.Response != nil {
		if trimmed := strings.TrimSpace(*input.Response); trimmed == "" || len(trimmed) > maxResponseLen {
			details["response"] = "must be 1-5000 characters"
		}
	}
	if input.InternalNote != nil {
		if trimmed := strings.TrimSpace(*input.InternalNote); trimmed == "" || len(trimmed) > maxNoteLen {
			details["internalNotes"] = "must be 1-2000 characters"
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket update", details)
	}
	return nil
}

func validateListFilter(filter TicketListFilter) error {
	details := map[string]any{}
	if filter.Status != nil && !domain.ValidStatus(*filter.Status) {
		details["status"] = "unknown status"
	}
	if filter.Priority != nil && !domain.ValidPriority(*filter.Priority) {
		details["priority"] = "unknown priority"
	}
	if filter.Category != nil && !domain.ValidTicketCategory(*filter.Category) {
		details["category"] = "unknown category"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid filter", details)
	}
	return nil
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:            {domain.TicketStatusInProgress},
	domain.TicketStatusInProgress:      {domain.TicketStatusWaitingCustomer, domain.TicketStatusResolved},
	domain.TicketStatusWaitingCustomer: {domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusResolved:        {domain.TicketStatusClosed},
	domain.TicketStatusClosed:          {},
}

func allowedTransition(current, next domain.TicketStatus) bool {
	if current == next {
		return true
	}
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
