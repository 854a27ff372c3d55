package service

import (
	"context"
	"errors"
	"math/rand"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-service/internal/domain"
	"github.com/spec-kit/support-service/internal/repository"
	"github.com/spec-kit/support-service/internal/triage"
	apperrors "github.com/spec-kit/support-service/pkg/util"
)

// AssignmentService routes new tickets to a handler pool and stores the
// initial response suggestions. All operations are idempotent so the
// queue's at-least-once delivery cannot duplicate side effects.
type AssignmentService struct {
	tickets repository.TicketRepository
	pools   triage.HandlerPools
	pick    func(n int) int
	logger  *zap.Logger
}

// NewAssignmentService constructs the service with uniform random
// selection within a pool.
func NewAssignmentService(tickets repository.TicketRepository, pools triage.HandlerPools, logger *zap.Logger) *AssignmentService {
	if pools == nil {
		pools = triage.DefaultPools()
	}
	return &AssignmentService{
		tickets: tickets,
		pools:   pools,
		pick:    rand.Intn,
		logger:  logger,
	}
}

// WithPicker overrides pool index selection.
func (s *AssignmentService) WithPicker(pick func(n int) int) *AssignmentService {
	s.pick = pick
	return s
}

// ProcessNewTicket auto-assigns a freshly created ticket and generates
// its response suggestions. Reapplying to an already-assigned ticket is
// a no-op.
func (s *AssignmentService) ProcessNewTicket(ctx context.Context, ticketID string, category domain.TicketCategory) error {
	ticket, assigned, err := s.Assign(ctx, ticketID, category)
	if err != nil {
		return err
	}
	if !assigned {
		// Already assigned, or gone. Suggestions may still be missing if
		// an earlier delivery died between the two writes, so fall
		// through with the current state.
		ticket, err = s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				s.logger.Warn("work item for unknown ticket", zap.String("ticket_id", ticketID))
				return nil
			}
			return apperrors.NewUpstreamFailure("ticket store", err)
		}
		if ticket.AssignedTo == nil {
			return nil
		}
	}

	suggestions := triage.SuggestResponses(ticket)
	stored, err := s.tickets.SetSuggestionsIfEmpty(ctx, ticket.ID, suggestions)
	if err != nil {
		return apperrors.NewUpstreamFailure("ticket store", err)
	}
	if stored {
		s.logger.Info("ticket assigned",
			zap.String("ticket_id", ticket.ID),
			zap.Stringp("assigned_to", ticket.AssignedTo),
			zap.Int("suggestions", len(suggestions)))
	}
	return nil
}

// Assign picks one handler uniformly at random from the category pool
// and atomically moves the ticket from open to in_progress. Returns
// assigned=false when the ticket was no longer open and unassigned.
func (s *AssignmentService) Assign(ctx context.Context, ticketID string, category domain.TicketCategory) (*domain.Ticket, bool, error) {
	if category == "" {
		ticket, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, false, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
			}
			return nil, false, apperrors.NewUpstreamFailure("ticket store", err)
		}
		category = ticket.Category
	}

	pool := s.pools.PoolFor(category)
	if len(pool) == 0 {
		return nil, false, apperrors.NewConflict("no eligible handlers for category", map[string]any{"category": category})
	}
	handler := pool[s.pick(len(pool))]

	ticket, assigned, err := s.tickets.AssignIfUnassigned(ctx, ticketID, handler)
	if err != nil {
		return nil, false, apperrors.NewUpstreamFailure("ticket store", err)
	}
	return ticket, assigned, nil
}
