package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-service/internal/domain"
)

const faqColumns = `id, question, answer, category, tags, keywords, related_articles,
               published, view_count, helpful_count, not_helpful_count,
               created_at, updated_at, created_by`

// FAQFilter captures listing parameters for articles.
type FAQFilter struct {
	Category  *domain.FAQCategory
	Published *bool
}

// FAQPatch describes a partial article update. Keywords are always set
// alongside question/answer changes by the service layer.
type FAQPatch struct {
	Question        *string
	Answer          *string
	Category        *domain.FAQCategory
	Tags            []string
	Keywords        []string
	RelatedArticles []string
	Published       *bool
}

// FAQRepository encapsulates article persistence.
type FAQRepository interface {
	Create(ctx context.Context, article *domain.FAQArticle) error
	// GetAndCountView fetches an article and counts the fetch as a view,
	// atomically.
	GetAndCountView(ctx context.Context, id string) (*domain.FAQArticle, error)
	GetByID(ctx context.Context, id string) (*domain.FAQArticle, error)
	Update(ctx context.Context, id string, patch FAQPatch) (*domain.FAQArticle, error)
	Delete(ctx context.Context, id string) error
	// Rate increments exactly one of the helpfulness counters.
	Rate(ctx context.Context, id string, helpful bool) error
	List(ctx context.Context, filter FAQFilter) ([]domain.FAQArticle, error)
}

type faqRepository struct {
	pool *pgxpool.Pool
}

// NewFAQRepository instantiates repository.
func NewFAQRepository(pool *pgxpool.Pool) FAQRepository {
	return &faqRepository{pool: pool}
}

func (r *faqRepository) Create(ctx context.Context, article *domain.FAQArticle) error {
	const query = `
        INSERT INTO faq_articles (id, question, answer, category, tags, keywords,
                                  related_articles, published, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		article.ID,
		article.Question,
		article.Answer,
		article.Category,
		emptyStrings(article.Tags),
		emptyStrings(article.Keywords),
		emptyStrings(article.RelatedArticles),
		article.Published,
		article.CreatedBy,
	).Scan(&article.CreatedAt, &article.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

func (r *faqRepository) GetAndCountView(ctx context.Context, id string) (*domain.FAQArticle, error) {
	query := fmt.Sprintf(`
        UPDATE faq_articles SET view_count = view_count + 1
        WHERE id=$1 RETURNING %s`, faqColumns)
	return scanArticle(r.pool.QueryRow(ctx, query, id))
}

func (r *faqRepository) GetByID(ctx context.Context, id string) (*domain.FAQArticle, error) {
	query := fmt.Sprintf(`SELECT %s FROM faq_articles WHERE id=$1`, faqColumns)
	return scanArticle(r.pool.QueryRow(ctx, query, id))
}

func (r *faqRepository) Update(ctx context.Context, id string, patch FAQPatch) (*domain.FAQArticle, error) {
	sets := []string{"updated_at=NOW()"}
	args := []any{id}

	if patch.Question != nil {
		args = append(args, *patch.Question)
		sets = append(sets, fmt.Sprintf("question=$%d", len(args)))
	}
	if patch.Answer != nil {
		args = append(args, *patch.Answer)
		sets = append(sets, fmt.Sprintf("answer=$%d", len(args)))
	}
	if patch.Category != nil {
		args = append(args, *patch.Category)
		sets = append(sets, fmt.Sprintf("category=$%d", len(args)))
	}
	if patch.Tags != nil {
		args = append(args, patch.Tags)
		sets = append(sets, fmt.Sprintf("tags=$%d", len(args)))
	}
	if patch.Keywords != nil {
		args = append(args, patch.Keywords)
		sets = append(sets, fmt.Sprintf("keywords=$%d", len(args)))
	}
	if patch.RelatedArticles != nil {
		args = append(args, patch.RelatedArticles)
		sets = append(sets, fmt.Sprintf("related_articles=$%d", len(args)))
	}
	if patch.Published != nil {
		args = append(args, *patch.Published)
		sets = append(sets, fmt.Sprintf("published=$%d", len(args)))
	}

	query := fmt.Sprintf(`UPDATE faq_articles SET %s WHERE id=$1 RETURNING %s`,
		strings.Join(sets, ", "), faqColumns)
	return scanArticle(r.pool.QueryRow(ctx, query, args...))
}

func (r *faqRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM faq_articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *faqRepository) Rate(ctx context.Context, id string, helpful bool) error {
	column := "not_helpful_count"
	if helpful {
		column = "helpful_count"
	}
	query := fmt.Sprintf(`UPDATE faq_articles SET %s = %s + 1, updated_at=NOW() WHERE id=$1`, column, column)
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *faqRepository) List(ctx context.Context, filter FAQFilter) ([]domain.FAQArticle, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Published != nil {
		args = append(args, *filter.Published)
		clauses = append(clauses, fmt.Sprintf("published=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM faq_articles WHERE %s`,
		faqColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.FAQArticle
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *article)
	}
	return result, rows.Err()
}

func scanArticle(row pgx.Row) (*domain.FAQArticle, error) {
	var article domain.FAQArticle
	if err := row.Scan(
		&article.ID,
		&article.Question,
		&article.Answer,
		&article.Category,
		&article.Tags,
		&article.Keywords,
		&article.RelatedArticles,
		&article.Published,
		&article.ViewCount,
		&article.HelpfulCount,
		&article.NotHelpfulCount,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.CreatedBy,
	); err != nil {
		return nil, err
	}
	return &article, nil
}
