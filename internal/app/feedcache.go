package app

import (
	"context"
	"fmt"
	"time"

	"roomreviews/internal/domain"
)

// cachedFeed memoizes raw feed pages so close-together runs against
// the same rooms reuse recent payloads instead of hitting the feed.
// Only page bytes are cached; extracted records are never persisted.
type cachedFeed struct {
	inner domain.FeedClient
	cache domain.Cache
	ttl   time.Duration
}

func NewCachedFeed(inner domain.FeedClient, cache domain.Cache, ttl time.Duration) domain.FeedClient {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &cachedFeed{inner: inner, cache: cache, ttl: ttl}
}

func pageKey(room domain.RoomRef, cursor string) string {
	return fmt.Sprintf("page:%s:%s:%s", room.Host(), room.ID, cursor)
}

func (c *cachedFeed) FetchReviews(ctx context.Context, room domain.RoomRef, cursor string) ([]byte, error) {
	key := pageKey(room, cursor)

	var payload []byte
	if ok, err := c.cache.Get(ctx, key, &payload); err == nil && ok {
		return payload, nil
	}

	payload, err := c.inner.FetchReviews(ctx, room, cursor)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, key, payload, c.ttl) // cache trouble never fails a fetch
	return payload, nil
}
