package domain

import "time"

// FAQCategory enumerates knowledge base sections. It shares the ticket
// categories except that articles use "general" instead of "other".
type FAQCategory string

const (
	FAQCategoryTechnical FAQCategory = "technical"
	FAQCategoryGameplay  FAQCategory = "gameplay"
	FAQCategoryAccount   FAQCategory = "account"
	FAQCategoryBilling   FAQCategory = "billing"
	FAQCategoryGeneral   FAQCategory = "general"
)

// FAQArticle is a knowledge base question/answer pair.
type FAQArticle struct {
	ID              string
	Question        string
	Answer          string
	Category        FAQCategory
	Tags            []string
	Keywords        []string
	RelatedArticles []string
	Published       bool
	ViewCount       int64
	HelpfulCount    int64
	NotHelpfulCount int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CreatedBy       string
}

// PopularityRank orders articles in plain listings.
func (a *FAQArticle) PopularityRank() int64 {
	return a.ViewCount + 2*a.HelpfulCount
}

// ValidFAQCategory reports whether c is a known article category.
func ValidFAQCategory(c FAQCategory) bool {
	switch c {
	case FAQCategoryTechnical, FAQCategoryGameplay, FAQCategoryAccount,
		FAQCategoryBilling, FAQCategoryGeneral:
		return true
	}
	return false
}
