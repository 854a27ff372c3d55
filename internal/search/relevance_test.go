package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/support-service/internal/domain"
)

func article(question, answer string, tags []string) *domain.FAQArticle {
	return &domain.FAQArticle{Question: question, Answer: answer, Tags: tags}
}

func TestRelevanceScoreQuestionMatch(t *testing.T) {
	a := article("How do I request a refund?", "Open your order history.", nil)

	score := RelevanceScore(a, []string{"refund"})
	assert.InDelta(t, 10.0, score, 0.0001)
}

func TestRelevanceScoreAnswerAndTagMatch(t *testing.T) {
	a := article("Payment troubles", "Contact support about the refund.", []string{"refund", "billing"})

	// answer 5 + tag 7, question does not contain the term
	score := RelevanceScore(a, []string{"refund"})
	assert.InDelta(t, 12.0, score, 0.0001)
}

func TestRelevanceScoreTagMatchesOncePerTerm(t *testing.T) {
	a := article("x", "y", []string{"refund", "refund policy"})

	score := RelevanceScore(a, []string{"refund"})
	assert.InDelta(t, 7.0, score, 0.0001)
}

func TestRelevanceScoreExactQuestionOutranksSubstring(t *testing.T) {
	exact := article("refund", "z", nil)
	partial := article("refund policy details", "z", nil)

	exactScore := RelevanceScore(exact, []string{"refund"})
	partialScore := RelevanceScore(partial, []string{"refund"})

	assert.Greater(t, exactScore, partialScore)
	assert.InDelta(t, 30.0, exactScore, 0.0001)
	assert.InDelta(t, 10.0, partialScore, 0.0001)
}

func TestRelevanceScorePopularityBoosts(t *testing.T) {
	a := article("unrelated", "unrelated", nil)
	a.ViewCount = 99
	a.HelpfulCount = 50

	// ln(100) + 50/99 * 5, no textual matches
	want := math.Log(100) + 50.0/99.0*5
	score := RelevanceScore(a, []string{"nomatch"})
	assert.InDelta(t, want, score, 0.0001)
}

func TestRelevanceScoreZeroViewsDividesByOne(t *testing.T) {
	a := article("unrelated", "unrelated", nil)
	a.HelpfulCount = 2

	score := RelevanceScore(a, []string{"nomatch"})
	assert.InDelta(t, 10.0, score, 0.0001) // 2/1 * 5 + ln(1)
}

func TestRelevanceScoreDeterministic(t *testing.T) {
	a := article("How do I reset my password?", "Use the forgot password link.", []string{"account"})
	a.ViewCount = 12
	a.HelpfulCount = 3

	first := RelevanceScore(a, []string{"password", "reset"})
	second := RelevanceScore(a, []string{"password", "reset"})
	assert.Equal(t, first, second)
}
