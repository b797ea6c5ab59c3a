package keywords

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// MaxKeywords is the number of keywords Extract returns at most.
	MaxKeywords = 20

	// MinTokenLength is the shortest token considered a keyword, in characters.
	MinTokenLength = 3
)

// A token is a run of letters; combining marks stay attached to the letter they follow.
var tokenPattern = regexp.MustCompile(`\p{L}[\p{L}\p{M}]*`)

// Stop words never returned as keywords
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "as": true, "is": true, "was": true,
	"are": true, "were": true, "been": true, "be": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "will": true, "would": true,
	"could": true, "should": true, "may": true, "might": true, "must": true, "can": true,
	"this": true, "that": true, "these": true, "those": true, "i": true, "you": true,
	"he": true, "she": true, "it": true, "we": true, "they": true, "what": true,
	"which": true, "who": true, "when": true, "where": true, "why": true, "how": true,
	"if": true, "then": true, "than": true, "my": true, "your": true, "his": true,
	"her": true, "its": true, "our": true, "their": true, "me": true, "him": true,
	"us": true, "them": true,
}

// IsStopWord reports whether word (compared case-insensitively) is a stop word.
func IsStopWord(word string) bool {
	return stopWords[strings.ToLower(word)]
}

// Extract returns up to MaxKeywords keywords from text.
func Extract(text string) []string {
	return ExtractN(text, MaxKeywords)
}

// ExtractN returns up to n keywords from text, most frequent first.
// Terms with equal counts keep the order of their first appearance.
// The result is never nil.
func ExtractN(text string, n int) []string {
	if n <= 0 {
		return []string{}
	}

	counts := make(map[string]int)
	var order []string // distinct terms by first appearance

	for _, token := range tokenize(text) {
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return append([]string{}, order...)
}

// tokenize lowercases text and returns its candidate keyword tokens in order.
func tokenize(text string) []string {
	words := tokenPattern.FindAllString(strings.ToLower(text), -1)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		if utf8.RuneCountInString(word) < MinTokenLength || stopWords[word] {
			continue
		}
		filtered = append(filtered, word)
	}

	return filtered
}
