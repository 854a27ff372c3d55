package search

import (
	"math"
	"strings"

	"github.com/spec-kit/support-service/internal/domain"
)

// Relevance weights. Question matches outrank tag matches, which
// outrank answer matches; a full-string question match earns a bonus.
const (
	questionMatchWeight   = 10
	answerMatchWeight     = 5
	tagMatchWeight        = 7
	exactQuestionBonus    = 20
	helpfulnessBoostScale = 5
)

// RelevanceScore scores an article against a set of lowercase search
// terms. The textual component sums fixed weights per matching term; two
// popularity boosts reward frequently viewed and helpful articles.
// Deterministic for identical inputs.
func RelevanceScore(article *domain.FAQArticle, terms []string) float64 {
	question := strings.ToLower(article.Question)
	answer := strings.ToLower(article.Answer)

	var score float64
	for _, term := range terms {
		term = strings.ToLower(term)
		if term == "" {
			continue
		}
		if strings.Contains(question, term) {
			score += questionMatchWeight
		}
		if strings.Contains(answer, term) {
			score += answerMatchWeight
		}
		for _, tag := range article.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				score += tagMatchWeight
				break
			}
		}
		if question == term {
			score += exactQuestionBonus
		}
	}

	score += math.Log(float64(article.ViewCount) + 1)
	views := article.ViewCount
	if views < 1 {
		views = 1
	}
	score += float64(article.HelpfulCount) / float64(views) * helpfulnessBoostScale

	return score
}
