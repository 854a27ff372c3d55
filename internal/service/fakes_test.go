package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-service/internal/domain"
	"github.com/spec-kit/support-service/internal/events"
	"github.com/spec-kit/support-service/internal/queue"
	"github.com/spec-kit/support-service/internal/repository"
)

// memTicketRepo is an in-memory ticket store mirroring the conditional
// update semantics of the SQL implementation.
type memTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
	failAll error
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (r *memTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return r.failAll
	}
	if _, exists := r.tickets[ticket.ID]; exists {
		return repository.ErrDuplicateID
	}
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	if ticket.Responses == nil {
		ticket.Responses = []domain.ThreadEntry{}
	}
	if ticket.InternalNotes == nil {
		ticket.InternalNotes = []domain.ThreadEntry{}
	}
	if ticket.ResponseSuggestions == nil {
		ticket.ResponseSuggestions = []string{}
	}
	r.tickets[ticket.ID] = cloneTicket(ticket)
	return nil
}

func (r *memTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneTicket(ticket), nil
}

func (r *memTicketRepo) Update(ctx context.Context, id string, patch repository.TicketPatch) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if patch.Status != nil {
		ticket.Status = *patch.Status
	}
	if patch.AssignedTo != nil {
		ticket.AssignedTo = patch.AssignedTo
	}
	if patch.AppendResponse != nil {
		ticket.Responses = append(ticket.Responses, *patch.AppendResponse)
	}
	if patch.AppendNote != nil {
		ticket.InternalNotes = append(ticket.InternalNotes, *patch.AppendNote)
	}
	ticket.UpdatedAt = time.Now()
	return cloneTicket(ticket), nil
}

func (r *memTicketRepo) AssignIfUnassigned(ctx context.Context, id, handler string) (*domain.Ticket, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, false, r.failAll
	}
	ticket, ok := r.tickets[id]
	if !ok || ticket.Status != domain.TicketStatusOpen || ticket.AssignedTo != nil {
		return nil, false, nil
	}
	ticket.AssignedTo = &handler
	ticket.Status = domain.TicketStatusInProgress
	ticket.UpdatedAt = time.Now()
	return cloneTicket(ticket), true, nil
}

func (r *memTicketRepo) SetSuggestionsIfEmpty(ctx context.Context, id string, suggestions []string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return false, r.failAll
	}
	ticket, ok := r.tickets[id]
	if !ok || len(ticket.ResponseSuggestions) > 0 {
		return false, nil
	}
	ticket.ResponseSuggestions = append([]string{}, suggestions...)
	ticket.UpdatedAt = time.Now()
	return true, nil
}

func (r *memTicketRepo) EscalateIfBreached(ctx context.Context, id string, now time.Time) (*domain.Ticket, domain.TicketPriority, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, "", false, r.failAll
	}
	ticket, ok := r.tickets[id]
	if !ok || ticket.Escalated || ticket.IsTerminal() || ticket.SLADeadline.After(now) {
		return nil, "", false, nil
	}
	old := ticket.Priority
	ticket.Priority = domain.TicketPriorityUrgent
	ticket.Escalated = true
	ticket.UpdatedAt = time.Now()
	return cloneTicket(ticket), old, true, nil
}

func (r *memTicketRepo) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if len(filter.Statuses) > 0 && !statusIn(ticket.Status, filter.Statuses) {
			continue
		}
		if filter.Priority != nil && ticket.Priority != *filter.Priority {
			continue
		}
		if filter.Category != nil && ticket.Category != *filter.Category {
			continue
		}
		if filter.OwnerID != nil && ticket.OwnerID != *filter.OwnerID {
			continue
		}
		result = append(result, *cloneTicket(ticket))
	}
	return result, nil
}

func statusIn(status domain.TicketStatus, statuses []domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func cloneTicket(t *domain.Ticket) *domain.Ticket {
	clone := *t
	clone.Responses = append([]domain.ThreadEntry{}, t.Responses...)
	clone.InternalNotes = append([]domain.ThreadEntry{}, t.InternalNotes...)
	clone.ResponseSuggestions = append([]string{}, t.ResponseSuggestions...)
	if t.AssignedTo != nil {
		v := *t.AssignedTo
		clone.AssignedTo = &v
	}
	return &clone
}

// memFAQRepo is an in-memory article store.
type memFAQRepo struct {
	mu       sync.Mutex
	articles map[string]*domain.FAQArticle
}

func newMemFAQRepo() *memFAQRepo {
	return &memFAQRepo{articles: map[string]*domain.FAQArticle{}}
}

func (r *memFAQRepo) Create(ctx context.Context, article *domain.FAQArticle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.articles[article.ID]; exists {
		return repository.ErrDuplicateID
	}
	now := time.Now()
	article.CreatedAt = now
	article.UpdatedAt = now
	r.articles[article.ID] = cloneArticle(article)
	return nil
}

func (r *memFAQRepo) GetAndCountView(ctx context.Context, id string) (*domain.FAQArticle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	article, ok := r.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	article.ViewCount++
	return cloneArticle(article), nil
}

func (r *memFAQRepo) GetByID(ctx context.Context, id string) (*domain.FAQArticle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	article, ok := r.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneArticle(article), nil
}

func (r *memFAQRepo) Update(ctx context.Context, id string, patch repository.FAQPatch) (*domain.FAQArticle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	article, ok := r.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if patch.Question != nil {
		article.Question = *patch.Question
	}
	if patch.Answer != nil {
		article.Answer = *patch.Answer
	}
	if patch.Category != nil {
		article.Category = *patch.Category
	}
	if patch.Tags != nil {
		article.Tags = append([]string{}, patch.Tags...)
	}
	if patch.Keywords != nil {
		article.Keywords = append([]string{}, patch.Keywords...)
	}
	if patch.RelatedArticles != nil {
		article.RelatedArticles = append([]string{}, patch.RelatedArticles...)
	}
	if patch.Published != nil {
		article.Published = *patch.Published
	}
	article.UpdatedAt = time.Now()
	return cloneArticle(article), nil
}

func (r *memFAQRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.articles, id)
	return nil
}

func (r *memFAQRepo) Rate(ctx context.Context, id string, helpful bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	article, ok := r.articles[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if helpful {
		article.HelpfulCount++
	} else {
		article.NotHelpfulCount++
	}
	return nil
}

func (r *memFAQRepo) List(ctx context.Context, filter repository.FAQFilter) ([]domain.FAQArticle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.FAQArticle
	for _, article := range r.articles {
		if filter.Category != nil && article.Category != *filter.Category {
			continue
		}
		if filter.Published != nil && article.Published != *filter.Published {
			continue
		}
		result = append(result, *cloneArticle(article))
	}
	return result, nil
}

func cloneArticle(a *domain.FAQArticle) *domain.FAQArticle {
	clone := *a
	clone.Tags = append([]string{}, a.Tags...)
	clone.Keywords = append([]string{}, a.Keywords...)
	clone.RelatedArticles = append([]string{}, a.RelatedArticles...)
	return &clone
}

// memQueue records enqueued items instead of delivering them.
type memQueue struct {
	mu    sync.Mutex
	items []queue.WorkItem
	fail  error
}

func (q *memQueue) Enqueue(ctx context.Context, item queue.WorkItem) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.fail != nil {
		return q.fail
	}
	q.items = append(q.items, item)
	return nil
}

func (q *memQueue) Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, nil
	}
	item := q.items[0]
	q.items = q.items[1:]
	return json.Marshal(item)
}

func (q *memQueue) Requeue(ctx context.Context, raw []byte) error { return nil }

func (q *memQueue) DeadLetter(ctx context.Context, raw []byte) error { return nil }

// memPublisher captures emitted events.
type memPublisher struct {
	mu     sync.Mutex
	events []events.Event
	fail   error
}

func (p *memPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.events = append(p.events, event)
	return nil
}

func (p *memPublisher) Close() error { return nil }

func (p *memPublisher) byType(eventType events.EventType) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var matched []events.Event
	for _, e := range p.events {
		if e.Type == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}
