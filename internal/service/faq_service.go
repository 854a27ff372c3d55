package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-service/internal/domain"
	"github.com/spec-kit/support-service/internal/repository"
	"github.com/spec-kit/support-service/internal/search"
	apperrors "github.com/spec-kit/support-service/pkg/util"
)

const (
	minQuestionLen = 10
	maxQuestionLen = 500
	minAnswerLen   = 20
	maxAnswerLen   = 5000
	maxTags        = 10
	maxRelated     = 5

	minQueryLen        = 3
	maxSearchResults   = 20
	maxSuggestions     = 5
	suggestThreshold   = 5
	answerPreviewChars = 200
)

// FAQService manages knowledge base articles and their relevance-ranked
// retrieval.
type FAQService struct {
	articles repository.FAQRepository
	logger   *zap.Logger
}

// NewFAQService constructs the service.
func NewFAQService(articles repository.FAQRepository, logger *zap.Logger) *FAQService {
	return &FAQService{articles: articles, logger: logger}
}

// FAQCreateInput describes article intake.
type FAQCreateInput struct {
	Question        string
	Answer          string
	Category        domain.FAQCategory
	Tags            []string
	RelatedArticles []string
}

// FAQUpdateInput describes a partial article edit; each field is
// independently optional.
type FAQUpdateInput struct {
	Question        *string
	Answer          *string
	Category        *domain.FAQCategory
	Tags            []string
	RelatedArticles []string
	Published       *bool
}

// ScoredArticle pairs an article with its relevance against a query.
type ScoredArticle struct {
	Article   domain.FAQArticle
	Relevance float64
}

// ArticleSuggestion is a compact suggested article for a ticket.
type ArticleSuggestion struct {
	ID            string
	Question      string
	AnswerPreview string
	Relevance     float64
}

// CreateArticle validates and stores a new unpublished article with
// derived keywords.
func (s *FAQService) CreateArticle(ctx context.Context, createdBy string, input FAQCreateInput) (*domain.FAQArticle, error) {
	if err := validateArticleCreate(input); err != nil {
		return nil, err
	}
	if createdBy == "" {
		createdBy = domain.SystemAuthor
	}

	article := &domain.FAQArticle{
		ID:              uuid.NewString(),
		Question:        input.Question,
		Answer:          input.Answer,
		Category:        input.Category,
		Tags:            input.Tags,
		Keywords:        search.ExtractKeywords(input.Question + " " + input.Answer),
		RelatedArticles: input.RelatedArticles,
		Published:       false,
		CreatedBy:       createdBy,
	}

	if err := s.articles.Create(ctx, article); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return nil, apperrors.NewConflict("article id already exists", map[string]any{"faq_id": article.ID})
		}
		return nil, apperrors.NewUpstreamFailure("faq store", err)
	}
	return article, nil
}

// GetArticle fetches an article; every successful fetch counts as a view.
func (s *FAQService) GetArticle(ctx context.Context, id string) (*domain.FAQArticle, error) {
	article, err := s.articles.GetAndCountView(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("faq", map[string]any{"faq_id": id})
		}
		return nil, apperrors.NewUpstreamFailure("faq store", err)
	}
	return article, nil
}

// UpdateArticle applies a partial edit. Keywords are re-derived from the
// post-update question and answer whenever either changes.
func (s *FAQService) UpdateArticle(ctx context.Context, id string, input FAQUpdateInput) (*domain.FAQArticle, error) {
	if err := validateArticleUpdate(input); err != nil {
		return nil, err
	}

	patch := repository.FAQPatch{
		Question:        input.Question,
		Answer:          input.Answer,
		Category:        input.Category,
		Tags:            input.Tags,
		RelatedArticles: input.RelatedArticles,
		Published:       input.Published,
	}

	if input.Question != nil || input.Answer != nil {
		current, err := s.articles.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("faq", map[string]any{"faq_id": id})
			}
			return nil, apperrors.NewUpstreamFailure("faq store", err)
		}
		question := current.Question
		if input.Question != nil {
			question = *input.Question
		}
		answer := current.Answer
		if input.Answer != nil {
			answer = *input.Answer
		}
		patch.Keywords = search.ExtractKeywords(question + " " + answer)
	}

	article, err := s.articles.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("faq", map[string]any{"faq_id": id})
		}
		return nil, apperrors.NewUpstreamFailure("faq store", err)
	}
	return article, nil
}

// DeleteArticle hard-deletes an article.
func (s *FAQService) DeleteArticle(ctx context.Context, id string) error {
	if err := s.articles.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("faq", map[string]any{"faq_id": id})
		}
		return apperrors.NewUpstreamFailure("faq store", err)
	}
	return nil
}

// RateArticle records reader feedback. The helpful flag is required.
func (s *FAQService) RateArticle(ctx context.Context, id string, helpful *bool) error {
	if helpful == nil {
		return apperrors.NewValidationError("helpful must be a boolean", map[string]any{"helpful": "required"})
	}
	if err := s.articles.Rate(ctx, id, *helpful); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("faq", map[string]any{"faq_id": id})
		}
		return apperrors.NewUpstreamFailure("faq store", err)
	}
	return nil
}

// Search ranks published articles against a free-text query, filtered to
// positive relevance, descending, top 20.
func (s *FAQService) Search(ctx context.Context, query string, category *domain.FAQCategory) ([]ScoredArticle, error) {
	if len(query) < minQueryLen {
		return nil, apperrors.NewValidationError("search query must be at least 3 characters", map[string]any{"q": "too short"})
	}
	if category != nil && !domain.ValidFAQCategory(*category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": *category})
	}

	articles, err := s.publishedArticles(ctx, category)
	if err != nil {
		return nil, err
	}

	terms := strings.Fields(strings.ToLower(query))
	return rankArticles(articles, terms, 0, maxSearchResults), nil
}

// SuggestForTicket returns up to 5 published articles relevant to a
// ticket's text, using extracted keywords as search terms and a higher
// relevance floor than plain search.
func (s *FAQService) SuggestForTicket(ctx context.Context, subject, description string, category *domain.FAQCategory) ([]ArticleSuggestion, error) {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(description) == "" {
		return nil, apperrors.NewValidationError("subject and description are required", nil)
	}

	articles, err := s.publishedArticles(ctx, category)
	if err != nil {
		return nil, err
	}

	terms := search.ExtractKeywords(subject + " " + description)
	ranked := rankArticles(articles, terms, suggestThreshold, maxSuggestions)

	suggestions := make([]ArticleSuggestion, 0, len(ranked))
	for _, sc := range ranked {
		suggestions = append(suggestions, ArticleSuggestion{
			ID:            sc.Article.ID,
			Question:      sc.Article.Question,
			AnswerPreview: previewAnswer(sc.Article.Answer),
			Relevance:     sc.Relevance,
		})
	}
	return suggestions, nil
}

// ListArticles returns articles sorted by popularity.
func (s *FAQService) ListArticles(ctx context.Context, category *domain.FAQCategory, published *bool) ([]domain.FAQArticle, error) {
	if category != nil && !domain.ValidFAQCategory(*category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": *category})
	}
	articles, err := s.articles.List(ctx, repository.FAQFilter{Category: category, Published: published})
	if err != nil {
		return nil, apperrors.NewUpstreamFailure("faq store", err)
	}
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PopularityRank() > articles[j].PopularityRank()
	})
	return articles, nil
}

func (s *FAQService) publishedArticles(ctx context.Context, category *domain.FAQCategory) ([]domain.FAQArticle, error) {
	published := true
	articles, err := s.articles.List(ctx, repository.FAQFilter{Category: category, Published: &published})
	if err != nil {
		return nil, apperrors.NewUpstreamFailure("faq store", err)
	}
	return articles, nil
}

func rankArticles(articles []domain.FAQArticle, terms []string, floor float64, limit int) []ScoredArticle {
	ranked := make([]ScoredArticle, 0, len(articles))
	for i := range articles {
		score := search.RelevanceScore(&articles[i], terms)
		if score > floor {
			ranked = append(ranked, ScoredArticle{Article: articles[i], Relevance: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Relevance > ranked[j].Relevance
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func previewAnswer(answer string) string {
	if len(answer) <= answerPreviewChars {
		return answer
	}
	return answer[:answerPreviewChars] + "..."
}

func validateArticleCreate(input FAQCreateInput) error {
	details := map[string]any{}
	if len(input.Question) < minQuestionLen || len(input.Question) > maxQuestionLen {
		details["question"] = "must be 10-500 characters"
	}
	if len(input.Answer) < minAnswerLen || len(input.Answer) > maxAnswerLen {
		details["answer"] = "must be 20-5000 characters"
	}
	if !domain.ValidFAQCategory(input.Category) {
		details["category"] = "must be one of technical, gameplay, account, billing, general"
	}
	if len(input.Tags) > maxTags {
		details["tags"] = "at most 10 tags"
	}
	if len(input.RelatedArticles) > maxRelated {
		details["relatedArticles"] = "at most 5 references"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid article payload", details)
	}
	return nil
}

func validateArticleUpdate(input FAQUpdateInput) error {
	details := map[string]any{}
	if input.Question != nil && (len(*input.Question) < minQuestionLen || len(*input.Question) > maxQuestionLen) {
		details["question"] = "must be 10-500 characters"
	}
	if input.Answer != nil && (len(*input.Answer) < minAnswerLen || len(*input.Answer) > maxAnswerLen) {
		details["answer"] = "must be 20-5000 characters"
	}
	if input.Category != nil && !domain.ValidFAQCategory(*input.Category) {
		details["category"] = "must be one of technical, gameplay, account, billing, general"
	}
	if len(input.Tags) > maxTags {
		details["tags"] = "at most 10 tags"
	}
	if len(input.RelatedArticles) > maxRelated {
		details["relatedArticles"] = "at most 5 references"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid article update", details)
	}
	return nil
}