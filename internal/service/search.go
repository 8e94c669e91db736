package service

import (
	"context"
	"time"

	"rentfinder/internal/model"
	"rentfinder/internal/observability"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ListingStore is the persistent listing source
type ListingStore interface {
	ListListings(ctx context.Context) ([]model.Listing, error)
	GetListingByID(ctx context.Context, id string) (*model.Listing, error)
	LogSearch(ctx context.Context, entry model.SearchLogEntry) error
}

// SnapshotCache holds a recent copy of the full listing set
type SnapshotCache interface {
	Get(ctx context.Context) ([]model.Listing, bool, error)
	Set(ctx context.Context, listings []model.Listing) error
}

const (
	defaultPageSize     = 20
	snapshotLoadTimeout = 30 * time.Second
)

// SearchService handles search business logic
type SearchService struct {
	store  ListingStore
	cache  SnapshotCache
	intent *IntentParser
	logger zerolog.Logger

	loads singleflight.Group
}

// NewSearchService creates a new search service. cache may be nil.
func NewSearchService(
	store ListingStore,
	cache SnapshotCache,
	intentParser *IntentParser,
	logger zerolog.Logger,
) *SearchService {
	return &SearchService{
		store:  store,
		cache:  cache,
		intent: intentParser,
		logger: logger.With().Str("component", "search").Logger(),
	}
}

// Search filters the current listing snapshot by the request's quick search
// query and advanced filters and returns one page of matches
func (s *SearchService) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResponse, error) {
	startTime := time.Now()

	var filters model.AdvancedFilters
	if req.Filters != nil {
		filters = *req.Filters
	}

	listings, err := s.loadListings(ctx)
	if err != nil {
		return nil, err
	}

	terms := s.intent.Parse(req.Query)
	mode := SearchMode(req.Query, filters)

	matched := listings
	if mode != ModeNone {
		matched = newEvaluator(terms, filters).Filter(listings)
	}

	// Set default options
	options := model.SearchOptions{TopK: defaultPageSize}
	if req.Options != nil {
		options = *req.Options
		if options.TopK <= 0 {
			options.TopK = defaultPageSize
		}
		if options.Offset < 0 {
			options.Offset = 0
		}
	}

	resp := paginate(matched, options)
	resp.Terms = terms
	resp.ActiveFilters = filters.ActiveCount()
	resp.Took = time.Since(startTime).Milliseconds()

	observability.ObserveSearch(mode, resp.Total)
	s.logger.Info().
		Str("mode", mode).
		Str("query", req.Query).
		Int("active_filters", resp.ActiveFilters).
		Int("total", resp.Total).
		Int64("took_ms", resp.Took).
		Msg("search completed")

	// Log search (non-blocking)
	entry := model.SearchLogEntry{
		Query:          req.Query,
		Filters:        filters,
		ResultCount:    resp.Total,
		ListingIDs:     make([]string, len(resp.Results)),
		ResponseTimeMs: int(resp.Took),
	}
	for i, l := range resp.Results {
		entry.ListingIDs[i] = l.ID
	}
	go func() {
		if err := s.store.LogSearch(context.Background(), entry); err != nil {
			s.logger.Warn().Err(err).Msg("failed to log search")
		}
	}()

	return resp, nil
}

// ParseQuery returns the structured terms for a quick search query
func (s *SearchService) ParseQuery(query string) model.ExtractedTerms {
	if terms := s.intent.Parse(query); terms != nil {
		return *terms
	}
	return ExtractSearchTerms(query)
}

// GetListing retrieves a single listing by ID
func (s *SearchService) GetListing(ctx context.Context, id string) (*model.Listing, error) {
	return s.store.GetListingByID(ctx, id)
}

// loadListings returns the listing snapshot, from the cache when possible.
// Concurrent misses share one database read. The shared read is detached from
// any single caller, so one disconnecting client does not fail the others.
func (s *SearchService) loadListings(ctx context.Context) ([]model.Listing, error) {
	ch := s.loads.DoChan("snapshot", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotLoadTimeout)
		defer cancel()

		if s.cache != nil {
			listings, ok, err := s.cache.Get(loadCtx)
			if err != nil {
				s.logger.Warn().Err(err).Msg("listing cache read failed, falling back to database")
			} else if ok {
				return listings, nil
			}
		}

		listings, err := s.store.ListListings(loadCtx)
		if err != nil {
			return nil, err
		}

		if s.cache != nil {
			if err := s.cache.Set(loadCtx, listings); err != nil {
				s.logger.Warn().Err(err).Msg("listing cache write failed")
			}
		}
		return listings, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]model.Listing), nil
	}
}

func paginate(matched []model.Listing, options model.SearchOptions) *model.SearchResponse {
	total := len(matched)

	start := options.Offset
	if start > total {
		start = total
	}
	end := start + options.TopK
	if end > total {
		end = total
	}

	totalPages := (total + options.TopK - 1) / options.TopK

	results := matched[start:end]
	if results == nil {
		results = []model.Listing{}
	}

	return &model.SearchResponse{
		Results:    results,
		Total:      total,
		Page:       options.Offset/options.TopK + 1,
		PageSize:   options.TopK,
		TotalPages: totalPages,
		HasMore:    end < total,
	}
}
