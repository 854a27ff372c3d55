package search

import (
	"sort"
	"strings"
	"unicode"
)

const maxKeywords = 10

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "from": {}, "as": {}, "is": {}, "was": {},
	"are": {}, "were": {}, "been": {}, "be": {}, "have": {}, "has": {},
	"had": {}, "do": {}, "does": {}, "did": {}, "will": {}, "would": {},
	"should": {}, "could": {}, "may": {}, "might": {}, "can": {},
	"how": {}, "what": {}, "when": {}, "where": {}, "why": {}, "who": {},
}

// ExtractKeywords tokenizes text into at most 10 distinct lowercase
// keywords ranked by descending frequency, ties broken by first
// occurrence. Tokens of length <= 3 and stop-words are discarded.
func ExtractKeywords(text string) []string {
	words := Tokenize(text)

	type stat struct {
		word  string
		count int
		first int
	}
	counts := make(map[string]*stat)
	order := make([]*stat, 0)
	for i, word := range words {
		if len(word) <= 3 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if s, ok := counts[word]; ok {
			s.count++
			continue
		}
		s := &stat{word: word, count: 1, first: i}
		counts[word] = s
		order = append(order, s)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	limit := len(order)
	if limit > maxKeywords {
		limit = maxKeywords
	}
	keywords := make([]string, 0, limit)
	for _, s := range order[:limit] {
		keywords = append(keywords, s.word)
	}
	return keywords
}

// Tokenize lower-cases text, strips punctuation and splits on whitespace.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return ' '
	}, lowered)
	return strings.Fields(cleaned)
}
