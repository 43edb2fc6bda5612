package service

import (
	"regexp"
	"strings"
	"unicode"
)

// stopWords are dropped from top-word rankings
var stopWords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of",
	"with", "by", "is", "are", "was", "were", "be", "been", "being", "have",
	"has", "had", "do", "does", "did", "will", "would", "could", "should",
	"may", "might", "must", "can", "this", "that", "these", "those", "i",
	"you", "he", "she", "it", "we", "they", "me", "him", "her", "us", "them",
	"my", "your", "his", "its", "our", "their",
}

// nonWord matches anything that is not an ASCII word character or a
// separator. RE2's \s is ASCII only, so vertical tab, the Unicode space and
// line/paragraph separators, and the BOM are listed explicitly.
var nonWord = regexp.MustCompile(`[^\w\s\x0B\p{Z}\x{FEFF}]`)

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Parser splits comment text into countable words
type Parser struct {
	stopWords map[string]struct{}
	minLength int
}

// NewParser creates a Parser with the default stop-word list. Tokens of
// two characters or fewer are discarded.
func NewParser() *Parser {
	set := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		set[w] = struct{}{}
	}
	return &Parser{stopWords: set, minLength: 3}
}

// Tokens lower-cases text, strips punctuation and returns the words that
// survive the length and stop-word filters, in order of appearance.
func (p *Parser) Tokens(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), "")

	var tokens []string
	for _, word := range strings.FieldsFunc(cleaned, isSeparator) {
		if len(word) < p.minLength {
			continue
		}
		if _, stop := p.stopWords[word]; stop {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// IsStopWord reports whether word is on the stop-word list
func (p *Parser) IsStopWord(word string) bool {
	_, ok := p.stopWords[strings.ToLower(word)]
	return ok
}
