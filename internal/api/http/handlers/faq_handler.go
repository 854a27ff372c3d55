package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-service/internal/api/dto"
	"github.com/spec-kit/support-service/internal/auth"
	"github.com/spec-kit/support-service/internal/domain"
	"github.com/spec-kit/support-service/internal/service"
	apperrors "github.com/spec-kit/support-service/pkg/util"
)

// FAQHandler manages knowledge base endpoints.
type FAQHandler struct {
	service *service.FAQService
}

// NewFAQHandler constructs handler.
func NewFAQHandler(faqService *service.FAQService) *FAQHandler {
	return &FAQHandler{service: faqService}
}

// CreateArticle POST /faq.
func (h *FAQHandler) CreateArticle(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("caller identity required")
	}
	var req dto.CreateFAQRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	article, err := h.service.CreateArticle(c.UserContext(), principal.SubjectID, service.FAQCreateInput{
		Question:        req.Question,
		Answer:          req.Answer,
		Category:        req.Category,
		Tags:            req.Tags,
		RelatedArticles: req.RelatedArticles,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": articleResponse(article)})
}

// GetArticle GET /faq/:id. Reads count as views.
func (h *FAQHandler) GetArticle(c *fiber.Ctx) error {
	article, err := h.service.GetArticle(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(article)})
}

// UpdateArticle PATCH /faq/:id.
func (h *FAQHandler) UpdateArticle(c *fiber.Ctx) error {
	var req dto.UpdateFAQRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	article, err := h.service.UpdateArticle(c.UserContext(), c.Params("id"), service.FAQUpdateInput{
		Question:        req.Question,
		Answer:          req.Answer,
		Category:        req.Category,
		Tags:            req.Tags,
		RelatedArticles: req.RelatedArticles,
		Published:       req.Published,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleResponse(article)})
}

// DeleteArticle DELETE /faq/:id.
func (h *FAQHandler) DeleteArticle(c *fiber.Ctx) error {
	if err := h.service.DeleteArticle(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListArticles GET /faq.
func (h *FAQHandler) ListArticles(c *fiber.Ctx) error {
	var category *domain.FAQCategory
	if v := c.Query("category"); v != "" {
		cat := domain.FAQCategory(v)
		category = &cat
	}
	var published *bool
	if v := c.Query("published"); v != "" {
		p := v == "true"
		published = &p
	}

	articles, err := h.service.ListArticles(c.UserContext(), category, published)
	if err != nil {
		return err
	}
	items := make([]dto.FAQResponse, 0, len(articles))
	for i := range articles {
		items = append(items, articleResponse(&articles[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"faqs":  items,
		"count": len(items),
	}})
}

// SearchArticles GET /faq/search?q=...&category=...
func (h *FAQHandler) SearchArticles(c *fiber.Ctx) error {
	var category *domain.FAQCategory
	if v := c.Query("category"); v != "" {
		cat := domain.FAQCategory(v)
		category = &cat
	}

	results, err := h.service.Search(c.UserContext(), c.Query("q"), category)
	if err != nil {
		return err
	}
	items := make([]dto.ScoredFAQResponse, 0, len(results))
	for _, r := range results {
		items = append(items, dto.ScoredFAQResponse{
			FAQResponse: articleResponse(&r.Article),
			Relevance:   r.Relevance,
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"results": items,
		"count":   len(items),
	}})
}

// RateArticle POST /faq/:id/rate.
func (h *FAQHandler) RateArticle(c *fiber.Ctx) error {
	var req dto.RateFAQRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.RateArticle(c.UserContext(), c.Params("id"), req.Helpful); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "feedback recorded"}})
}

// SuggestArticles POST /faq/suggest.
func (h *FAQHandler) SuggestArticles(c *fiber.Ctx) error {
	var req dto.SuggestFAQRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	var category *domain.FAQCategory
	if req.Category != "" {
		category = &req.Category
	}

	suggestions, err := h.service.SuggestForTicket(c.UserContext(), req.Subject, req.Description, category)
	if err != nil {
		return err
	}
	items := make([]dto.FAQSuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		items = append(items, dto.FAQSuggestionResponse{
			FAQID:     s.ID,
			Question:  s.Question,
			Answer:    s.AnswerPreview,
			Relevance: s.Relevance,
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"suggestions": items,
		"count":       len(items),
	}})
}

func articleResponse(article *domain.FAQArticle) dto.FAQResponse {
	return dto.FAQResponse{
		FAQID:           article.ID,
		Question:        article.Question,
		Answer:          article.Answer,
		Category:        article.Category,
		Tags:            article.Tags,
		Keywords:        article.Keywords,
		RelatedArticles: article.RelatedArticles,
		Published:       article.Published,
		ViewCount:       article.ViewCount,
		HelpfulCount:    article.HelpfulCount,
		NotHelpfulCount: article.NotHelpfulCount,
		CreatedAt:       article.CreatedAt,
		UpdatedAt:       article.UpdatedAt,
		CreatedBy:       article.CreatedBy,
	}
}
