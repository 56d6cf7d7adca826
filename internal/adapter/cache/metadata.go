// Package cache provides a short-lived Redis cache for normalized content
// metadata, so repeated checks of the same URL skip the scrape provider.
// The cache is optional; every failure degrades to a fresh fetch.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"effortnet/internal/domain"
)

const (
	keyPrefix  = "effortnet:meta:"
	defaultTTL = 10 * time.Minute
)

// MetadataCache stores ContentMetadata keyed by content URL.
type MetadataCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFromURL connects to Redis using a redis:// URL. An empty URL returns
// nil, which callers treat as caching disabled.
func NewFromURL(rawURL string) (*MetadataCache, error) {
	if rawURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis url: %w", err)
	}
	return &MetadataCache{client: redis.NewClient(opts), ttl: defaultTTL}, nil
}

// Get returns the cached metadata for the URL, or (nil, nil) on a miss.
func (c *MetadataCache) Get(ctx context.Context, url string) (*domain.ContentMetadata, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, keyPrefix+url).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache: get: %w", err)
	}
	var meta domain.ContentMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("cache: decode: %w", err)
	}
	return &meta, nil
}

// Set stores the metadata with the cache TTL.
func (c *MetadataCache) Set(ctx context.Context, url string, meta *domain.ContentMetadata) error {
	if c == nil || c.client == nil || meta == nil {
		return nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+url, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (c *MetadataCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
