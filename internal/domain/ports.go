package domain

import (
	"context"
	"time"
)

// FeedClient fetches one raw reviews-feed page for a room. An empty
// cursor asks for the first page; the returned bytes are the untouched
// response body.
type FeedClient interface {
	FetchReviews(ctx context.Context, room RoomRef, cursor string) ([]byte, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
