package utils

import (
	"regexp"
	"strings"
)

var numberWords = map[string]string{
	"one":   "1",
	"two":   "2",
	"three": "3",
	"four":  "4",
	"five":  "5",
	"six":   "6",
	"seven": "7",
	"eight": "8",
	"nine":  "9",
	"ten":   "10",
}

var numberWordPattern = regexp.MustCompile(`(?i)\b(one|two|three|four|five|six|seven|eight|nine|ten)\b`)

// ConvertNumberWords rewrites the whole words "one" through "ten" as digits.
// Words that only contain a number word, like "someone", are left alone.
func ConvertNumberWords(text string) string {
	return numberWordPattern.ReplaceAllStringFunc(text, func(word string) string {
		return numberWords[strings.ToLower(word)]
	})
}
