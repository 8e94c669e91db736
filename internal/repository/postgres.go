package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentfinder/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const listingColumns = `id, title, location, type, price, bedrooms, bathrooms,
			amenities, description, created_at, updated_at`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an existing connection pool
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// ListListings returns every published listing, newest first
func (r *PostgresRepository) ListListings(ctx context.Context) ([]model.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM listings
		WHERE is_published = true
		ORDER BY created_at DESC, id
	`, listingColumns)

	listings := []model.Listing{}
	if err := r.db.SelectContext(ctx, &listings, query); err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return listings, nil
}

// GetListingByID retrieves a single listing by its ID. A missing listing
// returns nil without an error.
func (r *PostgresRepository) GetListingByID(ctx context.Context, id string) (*model.Listing, error) {
	var listing model.Listing
	query := fmt.Sprintf(`
		SELECT %s
		FROM listings
		WHERE id = $1 AND is_published = true
	`, listingColumns)

	err := r.db.GetContext(ctx, &listing, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

// LogSearch records a search in the audit log
func (r *PostgresRepository) LogSearch(ctx context.Context, entry model.SearchLogEntry) error {
	logQuery := `
		INSERT INTO search_logs (query, location, type, bedrooms, min_price, max_price, amenities, result_count, returned_listing_ids, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	f := entry.Filters
	_, err := r.db.ExecContext(ctx, logQuery,
		entry.Query,
		f.Location,
		f.Type,
		f.Bedrooms,
		f.MinPrice,
		f.MaxPrice,
		f.Amenities,
		entry.ResultCount,
		pq.Array(entry.ListingIDs),
		entry.ResponseTimeMs,
	)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}
