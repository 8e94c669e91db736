package handler

import (
	"context"
	"net/http"
	"strings"

	"rentfinder/internal/model"

	"github.com/gin-gonic/gin"
)

// Searcher is the search behaviour the HTTP layer needs
type Searcher interface {
	Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResponse, error)
	ParseQuery(query string) model.ExtractedTerms
	GetListing(ctx context.Context, id string) (*model.Listing, error)
}

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searchService Searcher
	defaultLimit  int
	maxLimit      int
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService Searcher, defaultLimit, maxLimit int) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		defaultLimit:  defaultLimit,
		maxLimit:      maxLimit,
	}
}

// RegisterRoutes mounts the search endpoints on an /api/v1 group
func (h *SearchHandler) RegisterRoutes(apiV1 *gin.RouterGroup) {
	apiV1.POST("/search", h.Search)
	apiV1.GET("/search/terms", h.ParseTerms)
	apiV1.GET("/listings/:id", h.GetListing)
}

// Search handles POST /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// Set default options if not provided
	if req.Options == nil {
		req.Options = &model.SearchOptions{
			TopK:   h.defaultLimit,
			Offset: 0,
		}
	} else {
		// Validate and cap limits
		if req.Options.TopK <= 0 {
			req.Options.TopK = h.defaultLimit
		}
		if req.Options.TopK > h.maxLimit {
			req.Options.TopK = h.maxLimit
		}
		if req.Options.Offset < 0 {
			req.Options.Offset = 0
		}
	}

	response, err := h.searchService.Search(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// ParseTerms handles GET /api/v1/search/terms?q=
func (h *SearchHandler) ParseTerms(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}

	c.JSON(http.StatusOK, h.searchService.ParseQuery(query))
}

// GetListing handles GET /api/v1/listings/:id
func (h *SearchHandler) GetListing(c *gin.Context) {
	listingID := strings.TrimSpace(c.Param("id"))
	if listingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	listing, err := h.searchService.GetListing(c.Request.Context(), listingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listing: " + err.Error()})
		return
	}

	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}
