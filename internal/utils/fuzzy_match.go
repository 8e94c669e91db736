package utils

import (
	"strings"
	"unicode/utf8"
)

// DefaultFuzzyThreshold is the share of significant search words that must
// appear in the candidate for FuzzyMatchDefault to accept it
const DefaultFuzzyThreshold = 0.6

// minSignificantWordLen is the shortest search word that counts toward the
// overlap ratio. "in", "to", "a" and friends are ignored.
const minSignificantWordLen = 3

// FuzzyMatch reports whether candidate satisfies search.
// Both strings are normalized. A plain substring hit matches outright;
// otherwise the fraction of significant search words found inside the
// candidate must reach threshold.
func FuzzyMatch(candidate, search string, threshold float64) bool {
	if candidate == "" || search == "" {
		return false
	}

	normalizedCandidate := Normalize(candidate)
	normalizedSearch := Normalize(search)

	// Substring match
	if strings.Contains(normalizedCandidate, normalizedSearch) {
		return true
	}

	// Word-by-word match
	var words []string
	for _, w := range strings.Split(normalizedSearch, " ") {
		if utf8.RuneCountInString(w) >= minSignificantWordLen {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		// Only trivial tokens left, nothing to reject on
		return true
	}

	matched := 0
	for _, w := range words {
		if strings.Contains(normalizedCandidate, w) {
			matched++
		}
	}

	return float64(matched)/float64(len(words)) >= threshold
}

// FuzzyMatchDefault is FuzzyMatch with DefaultFuzzyThreshold
func FuzzyMatchDefault(candidate, search string) bool {
	return FuzzyMatch(candidate, search, DefaultFuzzyThreshold)
}

// AmenityMatches reports whether a listing amenity and a requested amenity
// term overlap in either direction after normalization, so "pool" matches
// "Swimming pool" and "covered parking" matches "Parking".
func AmenityMatches(listingAmenity, term string) bool {
	amenity := Normalize(listingAmenity)
	wanted := Normalize(term)
	if amenity == "" || wanted == "" {
		return false
	}
	return strings.Contains(amenity, wanted) || strings.Contains(wanted, amenity)
}
