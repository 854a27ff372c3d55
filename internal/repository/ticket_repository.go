package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-service/internal/domain"
)

const uniqueViolation = "23505"

// ErrDuplicateID is returned when a create collides on primary key.
var ErrDuplicateID = errors.New("duplicate id")

const ticketColumns = `id, owner_id, subject, description, category, priority, status,
               sla_deadline, escalated, assigned_to, responses, internal_notes,
               response_suggestions, created_at, updated_at`

// TicketFilter captures listing parameters.
type TicketFilter struct {
	Status   *domain.TicketStatus
	Statuses []domain.TicketStatus
	Priority *domain.TicketPriority
	Category *domain.TicketCategory
	OwnerID  *string
}

// TicketPatch describes a partial update. Field pointers replace, thread
// entries append atomically.
type TicketPatch struct {
	Status         *domain.TicketStatus
	AssignedTo     *string
	AppendResponse *domain.ThreadEntry
	AppendNote     *domain.ThreadEntry
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Update(ctx context.Context, id string, patch TicketPatch) (*domain.Ticket, error)
	// AssignIfUnassigned atomically moves an open, unassigned ticket to
	// in_progress with the given handler. Returns false when the ticket
	// was already assigned or no longer open.
	AssignIfUnassigned(ctx context.Context, id, handler string) (*domain.Ticket, bool, error)
	// SetSuggestionsIfEmpty stores response suggestions only once.
	SetSuggestionsIfEmpty(ctx context.Context, id string, suggestions []string) (bool, error)
	// EscalateIfBreached forces priority to urgent when the deadline has
	// passed, exactly once per ticket. Returns the pre-escalation
	// priority when the escalation was applied.
	EscalateIfBreached(ctx context.Context, id string, now time.Time) (*domain.Ticket, domain.TicketPriority, bool, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, owner_id, subject, description, category, priority, status,
                             sla_deadline, escalated, assigned_to, responses, internal_notes, response_suggestions)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.OwnerID,
		ticket.Subject,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
		ticket.SLADeadline,
		ticket.Escalated,
		ticket.AssignedTo,
		emptyThread(ticket.Responses),
		emptyThread(ticket.InternalNotes),
		emptyStrings(ticket.ResponseSuggestions),
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) Update(ctx context.Context, id string, patch TicketPatch) (*domain.Ticket, error) {
	sets := []string{"updated_at=NOW()"}
	args := []any{id}

	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}
	if patch.AssignedTo != nil {
		args = append(args, *patch.AssignedTo)
		sets = append(sets, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if patch.AppendResponse != nil {
		args = append(args, []domain.ThreadEntry{*patch.AppendResponse})
		sets = append(sets, fmt.Sprintf("responses = responses || $%d::jsonb", len(args)))
	}
	if patch.AppendNote != nil {
		args = append(args, []domain.ThreadEntry{*patch.AppendNote})
		sets = append(sets, fmt.Sprintf("internal_notes = internal_notes || $%d::jsonb", len(args)))
	}

	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$1 RETURNING %s`,
		strings.Join(sets, ", "), ticketColumns)
	return r.scanRow(r.pool.QueryRow(ctx, query, args...))
}

func (r *ticketRepository) AssignIfUnassigned(ctx context.Context, id, handler string) (*domain.Ticket, bool, error) {
	query := fmt.Sprintf(`
        UPDATE tickets SET assigned_to=$2, status=$3, updated_at=NOW()
        WHERE id=$1 AND status=$4 AND assigned_to IS NULL
        RETURNING %s`, ticketColumns)
	ticket, err := r.scanRow(r.pool.QueryRow(ctx, query, id, handler,
		domain.TicketStatusInProgress, domain.TicketStatusOpen))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return ticket, true, nil
}

func (r *ticketRepository) SetSuggestionsIfEmpty(ctx context.Context, id string, suggestions []string) (bool, error) {
	const query = `
        UPDATE tickets SET response_suggestions=$2, updated_at=NOW()
        WHERE id=$1 AND cardinality(response_suggestions)=0`
	cmd, err := r.pool.Exec(ctx, query, id, emptyStrings(suggestions))
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ticketRepository) EscalateIfBreached(ctx context.Context, id string, now time.Time) (*domain.Ticket, domain.TicketPriority, bool, error) {
	// The WHERE clause re-reads live state so a concurrent resolution or
	// a previous escalation makes this a no-op.
	query := fmt.Sprintf(`
        UPDATE tickets AS t SET priority=$2, escalated=TRUE, updated_at=NOW()
        FROM (SELECT id, priority AS old_priority FROM tickets WHERE id=$1 FOR UPDATE) AS prev
        WHERE t.id=prev.id AND t.escalated=FALSE AND t.status NOT IN ($3,$4) AND t.sla_deadline <= $5
        RETURNING prev.old_priority, %s`, prefixedTicketColumns("t"))
	row := r.pool.QueryRow(ctx, query, id, domain.TicketPriorityUrgent,
		domain.TicketStatusResolved, domain.TicketStatusClosed, now)

	var oldPriority domain.TicketPriority
	ticket, err := scanTicketWith(row, &oldPriority)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", false, nil
		}
		return nil, "", false, err
	}
	return ticket, oldPriority, true, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC`,
		ticketColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	return r.scanRow(r.pool.QueryRow(ctx, query, arg))
}

func (r *ticketRepository) scanRow(row pgx.Row) (*domain.Ticket, error) {
	return scanTicketWith(row)
}

func scanTicketWith(row pgx.Row, extra ...any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	dest := append(append([]any{}, extra...),
		&ticket.ID,
		&ticket.OwnerID,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.SLADeadline,
		&ticket.Escalated,
		&ticket.AssignedTo,
		&ticket.Responses,
		&ticket.InternalNotes,
		&ticket.ResponseSuggestions,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicketWith(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func prefixedTicketColumns(alias string) string {
	cols := strings.Split(ticketColumns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

func emptyThread(entries []domain.ThreadEntry) []domain.ThreadEntry {
	if entries == nil {
		return []domain.ThreadEntry{}
	}
	return entries
}

func emptyStrings(vals []string) []string {
	if vals == nil {
		return []string{}
	}
	return vals
}
