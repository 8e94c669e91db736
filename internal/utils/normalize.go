package utils

import (
	"strings"
)

// punctuation lists the characters Normalize replaces with a space
const punctuation = ".,/#!$%^&*;:{}=-_`~()"

var punctuationReplacer = newPunctuationReplacer()

func newPunctuationReplacer() *strings.Replacer {
	pairs := make([]string, 0, len(punctuation)*2)
	for _, r := range punctuation {
		pairs = append(pairs, string(r), " ")
	}
	return strings.NewReplacer(pairs...)
}

// Normalize lowercases text, replaces punctuation with spaces and collapses
// whitespace. Empty input returns an empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	lower := strings.ToLower(strings.TrimSpace(text))
	spaced := punctuationReplacer.Replace(lower)

	// Fields also drops the edges left behind by stripped punctuation
	return strings.Join(strings.Fields(spaced), " ")
}
