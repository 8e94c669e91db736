package service

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"rentfinder/internal/model"
	"rentfinder/internal/observability"
	"rentfinder/internal/utils"

	"github.com/rs/zerolog"
)

// PropertyTypes is the quick search type vocabulary, in match priority order
var PropertyTypes = []string{"apartment", "house", "villa", "studio", "townhouse", "penthouse"}

// AmenityKeywords is the quick search amenity vocabulary
var AmenityKeywords = []string{"parking", "security", "gym", "pool", "garden", "balcony"}

var (
	// (?!ath) is checked by hand after each match, RE2 has no lookahead
	bedroomPattern = regexp.MustCompile(`(\d+)\s*(bed|bedroom|br|b)`)

	pricePattern = regexp.MustCompile(`(\d+)k?\s*(to|-)?\s*(\d+)?k?`)

	// Longest unit first so "2 bedroom" is removed whole
	unitPattern = regexp.MustCompile(`\d+\s*(bedrooms|bedroom|beds|bed|br|b|k)\b`)

	typePattern = regexp.MustCompile(strings.Join(PropertyTypes, "|"))
)

// ExtractSearchTerms parses a free-text quick search query such as
// "2 bedroom apartment kilimani 50k" into structured terms.
//
// Each term is found by an independent pass over the normalized query, so a
// single number can feed more than one term: "3 bedroom" yields Bedrooms "3"
// and MinPrice 3000.
func ExtractSearchTerms(query string) model.ExtractedTerms {
	normalized := utils.ConvertNumberWords(utils.Normalize(query))

	minPrice, maxPrice := extractPrice(normalized)

	return model.ExtractedTerms{
		Bedrooms:  extractBedrooms(normalized),
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		Type:      extractType(normalized),
		Location:  extractLocation(normalized),
		Amenities: extractAmenities(normalized),
	}
}

func extractBedrooms(text string) *string {
	for _, m := range bedroomPattern.FindAllStringSubmatchIndex(text, -1) {
		// "1 bath" is a bathroom count. Longer units fall back to plain "b",
		// so only the letter after the unit's "b" decides.
		if strings.HasPrefix(text[m[4]+1:], "ath") {
			continue
		}
		beds := text[m[2]:m[3]]
		return &beds
	}
	return nil
}

func extractPrice(text string) (minPrice, maxPrice *int64) {
	m := pricePattern.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}
	minPrice = priceFromDigits(m[1])
	if m[3] != "" {
		maxPrice = priceFromDigits(m[3])
	}
	return minPrice, maxPrice
}

// priceFromDigits reads up to three digits as thousands ("45" -> 45000).
// Runs too long for int64 saturate rather than dropping the term.
func priceFromDigits(digits string) *int64 {
	v, err := strconv.ParseInt(digits, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		v = math.MaxInt64
	} else if err != nil {
		return nil
	}
	if len(digits) <= 3 {
		v *= 1000
	}
	return &v
}

func extractType(text string) *string {
	for _, t := range PropertyTypes {
		if strings.Contains(text, t) {
			found := t
			return &found
		}
	}
	return nil
}

func extractLocation(text string) string {
	location := unitPattern.ReplaceAllString(text, "")
	location = typePattern.ReplaceAllString(location, "")
	return strings.Join(strings.Fields(location), " ")
}

func extractAmenities(text string) []string {
	amenities := []string{}
	for _, a := range AmenityKeywords {
		if strings.Contains(text, a) {
			amenities = append(amenities, a)
		}
	}
	return amenities
}

// IntentParser turns quick search queries into structured terms and records
// what it found
type IntentParser struct {
	logger zerolog.Logger
}

// NewIntentParser creates a new intent parser
func NewIntentParser(logger zerolog.Logger) *IntentParser {
	return &IntentParser{
		logger: logger.With().Str("component", "intent").Logger(),
	}
}

// Parse extracts terms from query. An empty query yields nil.
func (p *IntentParser) Parse(query string) *model.ExtractedTerms {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	terms := ExtractSearchTerms(query)
	observeTerms(terms)

	p.logger.Debug().
		Str("query", query).
		Interface("terms", terms).
		Msg("parsed quick search")

	return &terms
}

func observeTerms(terms model.ExtractedTerms) {
	if terms.Bedrooms != nil {
		observability.ObserveQueryTerm("bedrooms")
	}
	if terms.MinPrice != nil || terms.MaxPrice != nil {
		observability.ObserveQueryTerm("price")
	}
	if terms.Type != nil {
		observability.ObserveQueryTerm("type")
	}
	if terms.Location != "" {
		observability.ObserveQueryTerm("location")
	}
	if len(terms.Amenities) > 0 {
		observability.ObserveQueryTerm("amenities")
	}
}
