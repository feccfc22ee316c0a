package redis

import (
	"context"
	"time"

	"github.com/eventify/booking/internal/domain"
	"github.com/google/uuid"
)

// CatalogSource is the uncached catalog read, normally the mongo adapter.
type CatalogSource interface {
	ConcertEvent(ctx context.Context, id uuid.UUID) (*domain.ConcertEvent, error)
	PersonalEvent(ctx context.Context, id uuid.UUID) (*domain.PersonalEvent, error)
}

// CachedCatalog fronts the catalog with a short redis TTL for concert
// reads, which sit on the pricing hot path. Personal events pass through.
type CachedCatalog struct {
	src   CatalogSource
	cache *Cache
	ttl   time.Duration
}

func NewCachedCatalog(src CatalogSource, cache *Cache, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{src: src, cache: cache, ttl: ttl}
}

func (c *CachedCatalog) ConcertEvent(ctx context.Context, id uuid.UUID) (*domain.ConcertEvent, error) {
	if cached, err := c.cache.GetConcertEvent(ctx, id); err == nil && cached != nil {
		return cached, nil
	}
	ev, err := c.src.ConcertEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.SetConcertEvent(ctx, *ev, c.ttl)
	return ev, nil
}

func (c *CachedCatalog) PersonalEvent(ctx context.Context, id uuid.UUID) (*domain.PersonalEvent, error) {
	return c.src.PersonalEvent(ctx, id)
}
