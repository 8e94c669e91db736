package service

import (
	"strings"

	"rentfinder/internal/model"
	"rentfinder/internal/utils"
)

// Search modes, used as metric labels
const (
	ModeNone     = "none"
	ModeQuick    = "quick"
	ModeAdvanced = "advanced"
	ModeCombined = "combined"
)

// SearchMode names the kind of search a query/filter pair describes
func SearchMode(quickQuery string, filters model.AdvancedFilters) string {
	quick := strings.TrimSpace(quickQuery) != ""
	advanced := !filters.IsEmpty()
	switch {
	case quick && advanced:
		return ModeCombined
	case quick:
		return ModeQuick
	case advanced:
		return ModeAdvanced
	default:
		return ModeNone
	}
}

// Evaluator is a quick search query and advanced filter set compiled into a
// single listing predicate. The zero value accepts every listing.
type Evaluator struct {
	terms *model.ExtractedTerms

	location  string
	unitType  string
	bedrooms  string
	atLeast   bool
	minPrice  *bound
	maxPrice  *bound
	amenities []string
}

// bound is a parsed price limit; ok is false when the filter text was not a
// number, in which case nothing can satisfy it
type bound struct {
	value float64
	ok    bool
}

// NewEvaluator parses quickQuery and normalizes filters once so that Match
// can be applied to many listings
func NewEvaluator(quickQuery string, filters model.AdvancedFilters) *Evaluator {
	var terms *model.ExtractedTerms
	if strings.TrimSpace(quickQuery) != "" {
		extracted := ExtractSearchTerms(quickQuery)
		terms = &extracted
	}
	return newEvaluator(terms, filters)
}

// newEvaluator builds an Evaluator from terms that were already extracted;
// nil terms means no quick search
func newEvaluator(terms *model.ExtractedTerms, filters model.AdvancedFilters) *Evaluator {
	e := &Evaluator{
		terms:    terms,
		location: strings.TrimSpace(filters.Location),
		unitType: strings.TrimSpace(filters.Type),
	}

	if beds := strings.TrimSpace(filters.Bedrooms); beds != "" {
		e.atLeast = strings.Contains(beds, "+")
		e.bedrooms = strings.Replace(beds, "+", "", 1)
	}

	e.minPrice = parseBound(filters.MinPrice)
	e.maxPrice = parseBound(filters.MaxPrice)

	if strings.TrimSpace(filters.Amenities) != "" {
		for _, a := range strings.Split(filters.Amenities, ",") {
			if term := utils.Normalize(a); term != "" {
				e.amenities = append(e.amenities, term)
			}
		}
	}

	return e
}

func parseBound(text string) *bound {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	v, ok := model.Quantity(text).Float()
	return &bound{value: v, ok: ok}
}

// Terms returns the structured form of the quick search query, or nil when
// there was none
func (e *Evaluator) Terms() *model.ExtractedTerms {
	return e.terms
}

// Match reports whether the listing satisfies every quick search term and
// every advanced filter
func (e *Evaluator) Match(listing model.Listing) bool {
	if e.terms != nil && !matchTerms(listing, e.terms) {
		return false
	}
	return e.matchAdvanced(listing)
}

func matchTerms(listing model.Listing, terms *model.ExtractedTerms) bool {
	if terms.Bedrooms != nil {
		if listing.Bedrooms.TrimPlus() != strings.Replace(*terms.Bedrooms, "+", "", 1) {
			return false
		}
	}

	if terms.Type != nil && !utils.FuzzyMatchDefault(listing.Type.String(), *terms.Type) {
		return false
	}

	if terms.Location != "" && !utils.FuzzyMatchDefault(listing.Location.String(), terms.Location) {
		return false
	}

	if terms.MinPrice != nil || terms.MaxPrice != nil {
		price, ok := listing.Price.Float()
		if !ok {
			return false
		}
		if terms.MinPrice != nil && price < float64(*terms.MinPrice) {
			return false
		}
		if terms.MaxPrice != nil && price > float64(*terms.MaxPrice) {
			return false
		}
	}

	if len(terms.Amenities) > 0 {
		if !hasAnyAmenity(listing.Amenities, terms.Amenities) {
			return false
		}
	}

	return true
}

// hasAnyAmenity reports whether any wanted keyword appears inside any of the
// listing's amenities
func hasAnyAmenity(listingAmenities []string, wanted []string) bool {
	for _, la := range listingAmenities {
		normalized := utils.Normalize(la)
		for _, w := range wanted {
			if strings.Contains(normalized, w) {
				return true
			}
		}
	}
	return false
}

func (e *Evaluator) matchAdvanced(listing model.Listing) bool {
	if e.location != "" && !utils.FuzzyMatchDefault(listing.Location.String(), e.location) {
		return false
	}

	if e.unitType != "" && !utils.FuzzyMatchDefault(listing.Type.String(), e.unitType) {
		return false
	}

	if e.bedrooms != "" {
		listingBeds := listing.Bedrooms.TrimPlus()
		if e.atLeast {
			have, okHave := model.Quantity(listingBeds).Float()
			want, okWant := model.Quantity(e.bedrooms).Float()
			if !okHave || !okWant || have < want {
				return false
			}
		} else if listingBeds != e.bedrooms {
			return false
		}
	}

	if e.minPrice != nil || e.maxPrice != nil {
		price, ok := listing.Price.Float()
		if !ok {
			return false
		}
		if e.minPrice != nil && (!e.minPrice.ok || price < e.minPrice.value) {
			return false
		}
		if e.maxPrice != nil && (!e.maxPrice.ok || price > e.maxPrice.value) {
			return false
		}
	}

	for _, term := range e.amenities {
		found := false
		for _, la := range listing.Amenities {
			if utils.AmenityMatches(la, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// FilterProperties returns the listings that satisfy both the quick search
// query and the advanced filters, in their original order. With an empty
// query and no filters the input slice is returned as is.
func FilterProperties(listings []model.Listing, quickQuery string, filters model.AdvancedFilters) []model.Listing {
	if strings.TrimSpace(quickQuery) == "" && filters.IsEmpty() {
		return listings
	}
	return NewEvaluator(quickQuery, filters).Filter(listings)
}

// Filter applies Match to every listing, keeping input order
func (e *Evaluator) Filter(listings []model.Listing) []model.Listing {
	filtered := make([]model.Listing, 0, len(listings))
	for _, listing := range listings {
		if e.Match(listing) {
			filtered = append(filtered, listing)
		}
	}
	return filtered
}
