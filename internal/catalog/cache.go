package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"combosearch/internal/domain"
)

// CachingPager keeps successful pages for a short time so that retyping a
// query or reopening the dropdown does not refetch. Errors are not cached.
type CachingPager struct {
	next   Pager
	cache  *cache.Cache
	logger *zap.Logger
}

// NewCachingPager wraps next with a cache of the given ttl. A non-positive
// ttl disables caching and returns next unchanged.
func NewCachingPager(next Pager, ttl time.Duration, logger *zap.Logger) Pager {
	if ttl <= 0 {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingPager{
		next:   next,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger.Named("cache"),
	}
}

func (p *CachingPager) Name() string {
	return p.next.Name()
}

func (p *CachingPager) Load(ctx context.Context, query string, page, pageSize int) (domain.Page, error) {
	key := fmt.Sprintf("%s|%d|%d|%s", p.next.Name(), page, pageSize, query)
	if x, found := p.cache.Get(key); found {
		p.logger.Debug("cache hit", zap.String("query", query), zap.Int("page", page))
		return clonePage(x.(domain.Page)), nil
	}

	result, err := p.next.Load(ctx, query, page, pageSize)
	if err != nil {
		return result, err
	}
	p.cache.Set(key, clonePage(result), cache.DefaultExpiration)
	return result, nil
}

func clonePage(page domain.Page) domain.Page {
	items := make([]domain.Item, len(page.Items))
	copy(items, page.Items)
	page.Items = items
	return page
}
