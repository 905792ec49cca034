package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"combosearch/internal/catalog"
	"combosearch/internal/domain"
)

// PageMsg carries the outcome of one page load
type PageMsg struct {
	gen    int
	query  string
	page   int
	result domain.Page
	err    error
}

// Feed accumulates the pages of the active query into one result set.
// Every first-page load opens a new generation; a response from an older
// generation is stale and never applied.
type Feed struct {
	pager     catalog.Pager
	pageSize  int
	minLength int
	timeout   time.Duration
	logger    *zap.Logger

	gen      int
	query    string
	active   bool
	items    []domain.Item
	hasMore  bool
	total    int
	nextPage int
	state    FetchState
	err      error
	fetched  bool
}

// NewFeed creates a feed loading pages of pageSize from pager
func NewFeed(pager catalog.Pager, pageSize, minLength int, timeout time.Duration, logger *zap.Logger) *Feed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{
		pager:     pager,
		pageSize:  pageSize,
		minLength: minLength,
		timeout:   timeout,
		logger:    logger,
	}
}

// Search makes query the active query and returns the load of its first
// page. A query shorter than the minimum length is not fetched unless
// allowEmpty is set; the result set is cleared instead. Searching for the
// already active query does nothing unless its last load failed. replaced
// reports whether the result set was replaced.
func (f *Feed) Search(query string, allowEmpty bool) (cmd Cmd, replaced bool) {
	if f.active && query == f.query && f.state != FetchError {
		return nil, false
	}

	f.gen++
	f.query = query
	f.items = nil
	f.hasMore = false
	f.total = 0
	f.err = nil
	f.fetched = false

	if len([]rune(query)) < f.minLength && !allowEmpty {
		f.active = false
		f.state = FetchIdle
		f.logger.Debug("query below minimum length", zap.String("query", query))
		return nil, true
	}

	f.active = true
	f.state = FetchLoadingFirstPage
	f.nextPage = 1
	return f.load(1), true
}

// LoadMore returns the load of the next page, or nil when there is none or
// a load is already in flight
func (f *Feed) LoadMore() Cmd {
	if !f.CanLoadMore() {
		return nil
	}
	f.state = FetchLoadingNextPage
	f.err = nil
	return f.load(f.nextPage)
}

// CanLoadMore reports whether LoadMore would start a load
func (f *Feed) CanLoadMore() bool {
	return f.active && f.hasMore && f.state != FetchLoadingFirstPage && f.state != FetchLoadingNextPage
}

func (f *Feed) load(page int) Cmd {
	gen, query, pageSize, timeout, pager := f.gen, f.query, f.pageSize, f.timeout, f.pager
	f.logger.Debug("loading page", zap.String("query", query), zap.Int("page", page), zap.Int("generation", gen))
	return func() Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		result, err := pager.Load(ctx, query, page, pageSize)
		return PageMsg{gen: gen, query: query, page: page, result: result, err: err}
	}
}

// Apply folds a page result into the result set. It returns false for
// stale responses, which are dropped.
func (f *Feed) Apply(msg PageMsg) bool {
	if msg.gen != f.gen || !f.active {
		f.logger.Debug("dropping stale page",
			zap.String("query", msg.query),
			zap.Int("page", msg.page),
			zap.Int("generation", msg.gen),
			zap.Int("current", f.gen))
		return false
	}

	if msg.err != nil {
		f.state = FetchError
		f.err = msg.err
		return true
	}

	if msg.page == 1 {
		f.items = nil
	}
	f.items = append(f.items, msg.result.Items...)
	f.hasMore = msg.result.HasMore
	f.total = msg.result.Total
	f.nextPage = msg.page + 1
	f.state = FetchIdle
	f.fetched = true
	return true
}

// Query returns the active query
func (f *Feed) Query() string { return f.query }

// Items returns the accumulated result set
func (f *Feed) Items() []domain.Item { return f.items }

// HasMore reports whether the latest page said more pages follow
func (f *Feed) HasMore() bool { return f.hasMore }

// Total returns the server-declared total of the latest page
func (f *Feed) Total() int { return f.total }

// State returns the fetch state
func (f *Feed) State() FetchState { return f.state }

// Err returns the error of the last failed load
func (f *Feed) Err() error { return f.err }

// Fetched reports whether at least one page of the active query arrived
func (f *Feed) Fetched() bool { return f.fetched }
