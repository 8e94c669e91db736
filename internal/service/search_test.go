package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"rentfinder/internal/cache"
	"rentfinder/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	listings []model.Listing
	listErr  error
	calls    atomic.Int32
	delay    time.Duration

	mu   sync.Mutex
	logs []model.SearchLogEntry
	done chan struct{}
}

func newFakeStore(listings []model.Listing) *fakeStore {
	return &fakeStore{listings: listings, done: make(chan struct{}, 16)}
}

func (f *fakeStore) ListListings(ctx context.Context) ([]model.Listing, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listings, nil
}

func (f *fakeStore) GetListingByID(ctx context.Context, id string) (*model.Listing, error) {
	for _, l := range f.listings {
		if l.ID == id {
			found := l
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) LogSearch(ctx context.Context, entry model.SearchLogEntry) error {
	f.mu.Lock()
	f.logs = append(f.logs, entry)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeStore) waitForLog(t *testing.T) model.SearchLogEntry {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
		t.Fatal("search was not logged")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logs[len(f.logs)-1]
}

type brokenCache struct{}

func (brokenCache) Get(ctx context.Context) ([]model.Listing, bool, error) {
	return nil, false, errors.New("redis down")
}

func (brokenCache) Set(ctx context.Context, listings []model.Listing) error {
	return errors.New("redis down")
}

func newTestService(store ListingStore, snapshots SnapshotCache) *SearchService {
	return NewSearchService(store, snapshots, NewIntentParser(zerolog.Nop()), zerolog.Nop())
}

func TestSearchService_Search(t *testing.T) {
	store := newFakeStore(sampleListings())
	svc := newTestService(store, nil)

	resp, err := svc.Search(context.Background(), &model.SearchRequest{Query: "2 bedroom kilimani"})
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, ids(resp.Results))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, defaultPageSize, resp.PageSize)
	assert.Equal(t, 1, resp.TotalPages)
	assert.False(t, resp.HasMore)
	require.NotNil(t, resp.Terms)
	assert.Equal(t, "kilimani", resp.Terms.Location)
	assert.Equal(t, 0, resp.ActiveFilters)

	entry := store.waitForLog(t)
	assert.Equal(t, "2 bedroom kilimani", entry.Query)
	assert.Equal(t, 1, entry.ResultCount)
	assert.Equal(t, []string{"1"}, entry.ListingIDs)
}

func TestSearchService_Search_NoCriteriaReturnsAll(t *testing.T) {
	store := newFakeStore(sampleListings())
	svc := newTestService(store, nil)

	resp, err := svc.Search(context.Background(), &model.SearchRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(resp.Results))
	assert.Nil(t, resp.Terms)
	store.waitForLog(t)
}

func TestSearchService_Search_AdvancedFilters(t *testing.T) {
	store := newFakeStore(sampleListings())
	svc := newTestService(store, nil)

	resp, err := svc.Search(context.Background(), &model.SearchRequest{
		Filters: &model.AdvancedFilters{Bedrooms: "3+", Amenities: "pool"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(resp.Results))
	assert.Equal(t, 2, resp.ActiveFilters)

	entry := store.waitForLog(t)
	assert.Equal(t, "3+", entry.Filters.Bedrooms)
}

func TestSearchService_Search_Pagination(t *testing.T) {
	var listings []model.Listing
	for i := 0; i < 7; i++ {
		listings = append(listings, model.Listing{ID: fmt.Sprintf("l-%d", i), Location: "Westlands"})
	}
	store := newFakeStore(listings)
	svc := newTestService(store, nil)

	tests := []struct {
		name      string
		options   *model.SearchOptions
		wantIDs   []string
		wantPage  int
		wantPages int
		wantMore  bool
	}{
		{name: "First page", options: &model.SearchOptions{TopK: 3}, wantIDs: []string{"l-0", "l-1", "l-2"}, wantPage: 1, wantPages: 3, wantMore: true},
		{name: "Last page", options: &model.SearchOptions{TopK: 3, Offset: 6}, wantIDs: []string{"l-6"}, wantPage: 3, wantPages: 3, wantMore: false},
		{name: "Offset past end", options: &model.SearchOptions{TopK: 3, Offset: 30}, wantIDs: []string{}, wantPage: 11, wantPages: 3, wantMore: false},
		{name: "Defaults", options: &model.SearchOptions{TopK: 0, Offset: -4}, wantIDs: ids(listings), wantPage: 1, wantPages: 1, wantMore: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Search(context.Background(), &model.SearchRequest{Query: "westlands", Options: tt.options})
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ids(resp.Results))
			assert.NotNil(t, resp.Results)
			assert.Equal(t, 7, resp.Total)
			assert.Equal(t, tt.wantPage, resp.Page)
			assert.Equal(t, tt.wantPages, resp.TotalPages)
			assert.Equal(t, tt.wantMore, resp.HasMore)
			store.waitForLog(t)
		})
	}
}

func TestSearchService_Search_StoreError(t *testing.T) {
	store := newFakeStore(nil)
	store.listErr = errors.New("failed to fetch listings: connection refused")
	svc := newTestService(store, nil)

	resp, err := svc.Search(context.Background(), &model.SearchRequest{Query: "karen"})
	assert.Nil(t, resp)
	assert.ErrorContains(t, err, "connection refused")
}

func TestSearchService_UsesSnapshotCache(t *testing.T) {
	mr := miniredis.RunT(t)
	snapshots := cache.NewListingCache(mr.Addr(), "", 0, time.Minute)
	t.Cleanup(func() { snapshots.Close() })

	store := newFakeStore(sampleListings())
	svc := newTestService(store, snapshots)

	for i := 0; i < 3; i++ {
		resp, err := svc.Search(context.Background(), &model.SearchRequest{Query: "villa"})
		require.NoError(t, err)
		assert.Equal(t, []string{"2"}, ids(resp.Results))
		store.waitForLog(t)
	}

	assert.Equal(t, int32(1), store.calls.Load(), "only the first search should reach the database")
	assert.True(t, mr.Exists(cache.SnapshotKey))
}

func TestSearchService_BrokenCacheFallsBackToStore(t *testing.T) {
	store := newFakeStore(sampleListings())
	svc := newTestService(store, brokenCache{})

	resp, err := svc.Search(context.Background(), &model.SearchRequest{Query: "villa"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(resp.Results))
	assert.Equal(t, int32(1), store.calls.Load())
	store.waitForLog(t)
}

func TestSearchService_ConcurrentLoadsShareOneRead(t *testing.T) {
	store := newFakeStore(sampleListings())
	store.delay = 50 * time.Millisecond
	svc := newTestService(store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.loadListings(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Less(t, store.calls.Load(), int32(8))
}

func TestSearchService_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	store := newFakeStore(sampleListings())
	store.delay = 100 * time.Millisecond
	svc := newTestService(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.loadListings(ctx)
		firstErr <- err
	}()

	// Let the first caller start the shared read before the second joins
	time.Sleep(10 * time.Millisecond)
	time.AfterFunc(20*time.Millisecond, cancel)

	listings, err := svc.loadListings(context.Background())
	require.NoError(t, err)
	assert.Len(t, listings, 2)

	assert.ErrorIs(t, <-firstErr, context.Canceled)
	assert.Equal(t, int32(1), store.calls.Load())
}

func TestSearchService_GetListingAndParseQuery(t *testing.T) {
	svc := newTestService(newFakeStore(sampleListings()), nil)

	listing, err := svc.GetListing(context.Background(), "2")
	require.NoError(t, err)
	require.NotNil(t, listing)
	assert.Equal(t, model.Text("Karen"), listing.Location)

	missing, err := svc.GetListing(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	terms := svc.ParseQuery("apartment westlands gym")
	require.NotNil(t, terms.Type)
	assert.Equal(t, "apartment", *terms.Type)
	assert.Equal(t, []string{"gym"}, terms.Amenities)

	empty := svc.ParseQuery("")
	assert.Nil(t, empty.Bedrooms)
	assert.Equal(t, []string{}, empty.Amenities)
}
