package model

import (
	"strings"
)

// SearchRequest represents a search query request
type SearchRequest struct {
	Query   string           `json:"query"`
	Filters *AdvancedFilters `json:"filters,omitempty"`
	Options *SearchOptions   `json:"options,omitempty"`
}

// AdvancedFilters represents the structured search form. Empty fields place
// no constraint on the listing.
type AdvancedFilters struct {
	Location  string `json:"location,omitempty"`
	Type      string `json:"type,omitempty"`
	Bedrooms  string `json:"bedrooms,omitempty"` // "3" exact, "3+" at least
	MinPrice  string `json:"minPrice,omitempty"`
	MaxPrice  string `json:"maxPrice,omitempty"`
	Amenities string `json:"amenities,omitempty"` // comma separated
}

// ActiveCount returns how many filter fields carry a value
func (f AdvancedFilters) ActiveCount() int {
	n := 0
	for _, v := range []string{f.Location, f.Type, f.Bedrooms, f.MinPrice, f.MaxPrice, f.Amenities} {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

// IsEmpty reports whether no filter field is set
func (f AdvancedFilters) IsEmpty() bool {
	return f.ActiveCount() == 0
}

// ExtractedTerms is the structured form of a quick search query
type ExtractedTerms struct {
	Bedrooms  *string  `json:"bedrooms"`
	MinPrice  *int64   `json:"minPrice"`
	MaxPrice  *int64   `json:"maxPrice"`
	Type      *string  `json:"type"`
	Location  string   `json:"location"`
	Amenities []string `json:"amenities"`
}

// SearchOptions represents pagination options
type SearchOptions struct {
	TopK   int `json:"top_k"`
	Offset int `json:"offset"`
}

// SearchResponse represents a search result response
type SearchResponse struct {
	Results       []Listing       `json:"results"`
	Total         int             `json:"total"`
	Page          int             `json:"page"`
	PageSize      int             `json:"page_size"`
	TotalPages    int             `json:"total_pages"`
	HasMore       bool            `json:"has_more"`
	Terms         *ExtractedTerms `json:"terms,omitempty"`
	ActiveFilters int             `json:"active_filters"`
	Took          int64           `json:"took_ms"` // Response time in milliseconds
}

// SearchLogEntry is one row of the search audit log
type SearchLogEntry struct {
	Query          string
	Filters        AdvancedFilters
	ResultCount    int
	ListingIDs     []string
	ResponseTimeMs int
}
