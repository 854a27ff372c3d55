package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeywordsFiltersShortAndStopWords(t *testing.T) {
	keywords := ExtractKeywords("How can I fix the payment error on my account")

	assert.NotContains(t, keywords, "how")
	assert.NotContains(t, keywords, "can")
	assert.NotContains(t, keywords, "the")
	assert.NotContains(t, keywords, "fix")
	assert.ElementsMatch(t, []string{"payment", "error", "account"}, keywords)
}

func TestExtractKeywordsOrdersByFrequency(t *testing.T) {
	keywords := ExtractKeywords("payment failed payment declined payment refund refund")

	require.GreaterOrEqual(t, len(keywords), 2)
	assert.Equal(t, "payment", keywords[0])
	assert.Equal(t, "refund", keywords[1])
}

func TestExtractKeywordsTiesBrokenByFirstOccurrence(t *testing.T) {
	keywords := ExtractKeywords("zebra apple zebra apple banana")

	require.Len(t, keywords, 3)
	assert.Equal(t, []string{"zebra", "apple", "banana"}, keywords)
}

func TestExtractKeywordsCapsAtTen(t *testing.T) {
	keywords := ExtractKeywords("alpha bravo charlie delta echoes foxtrot golfing hotel india juliet kilos limas")

	assert.Len(t, keywords, 10)
}

func TestExtractKeywordsLowercasesAndStripsPunctuation(t *testing.T) {
	keywords := ExtractKeywords("PAYMENT!!! Failed... (again)")

	assert.Contains(t, keywords, "payment")
	assert.Contains(t, keywords, "failed")
	assert.Contains(t, keywords, "again")
}

func TestExtractKeywordsEmptyInput(t *testing.T) {
	assert.Empty(t, ExtractKeywords(""))
	assert.Empty(t, ExtractKeywords("a an the is to"))
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("Can't log-in: error_42 occurred!")

	assert.Equal(t, []string{"can", "t", "log", "in", "error_42", "occurred"}, tokens)
}
