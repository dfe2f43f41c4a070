package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	// Collapses 24", 24 inch, 24inch into "24 inch". Applied before the
	// punctuation strip so the quote form is still visible.
	inchRegex = regexp.MustCompile(`(\d+)\s*(?:inch|")`)

	// Everything that is not a word character, whitespace, or period
	// becomes a space. Keeps alphanumerics, underscores, and dots.
	punctuationRegex = regexp.MustCompile(`[^\w\s.]`)

	// Tight forms for capacity and refresh-rate notations: "512 gb"
	// and "512gb" both normalize to "512gb".
	gbRegex = regexp.MustCompile(`(\d+)\s*gb`)
	tbRegex = regexp.MustCompile(`(\d+)\s*tb`)
	hzRegex = regexp.MustCompile(`(\d+)\s*hz`)
)

// nameStopwords holds marketing and noise tokens dropped from product
// names before comparison: warranty/promo vocabulary, connector words,
// and generic hardware-feature tokens that appear in nearly every
// listing of the category.
var nameStopwords = map[string]bool{
	"garansi": true,
	"resmi":   true,
	"original": true,
	"dan":     true,
	"promo":   true,
	"murah":   true,
	"untuk":   true,
	"dengan":  true,
	"built":   true,
	"in":      true,
	"speaker": true,
	"hdmi":    true,
	"dp":      true,
	"vga":     true,
	"ms":      true,
	"office":  true,
}

// Normalize cleans a raw product name into the canonical token form
// used for vectorization. It is deterministic and idempotent:
// Normalize(Normalize(s)) == Normalize(s) for every input, and an
// empty or whitespace-only input yields the empty string.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := strings.ToLower(raw)

	text = inchRegex.ReplaceAllString(text, "${1} inch")
	text = punctuationRegex.ReplaceAllString(text, " ")
	text = gbRegex.ReplaceAllString(text, "${1}gb")
	text = tbRegex.ReplaceAllString(text, "${1}tb")
	text = hzRegex.ReplaceAllString(text, "${1}hz")

	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if nameStopwords[word] {
			continue
		}
		tokens = append(tokens, word)
	}

	return strings.Join(tokens, " ")
}
