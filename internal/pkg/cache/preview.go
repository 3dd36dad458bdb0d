// internal/pkg/cache/preview.go
package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"scout-service/internal/domain/pricing"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

const previewKeyPrefix = "quote:preview:"

// PreviewCache stores computed quotes under a hash of their inputs, so an
// entry can only ever be returned for the exact request and rules that
// produced it.
type PreviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPreviewCache(client *redis.Client, ttl time.Duration) *PreviewCache {
	return &PreviewCache{client: client, ttl: ttl}
}

// PreviewKey hashes the request together with the rules it is priced with.
func PreviewKey(req pricing.QuoteRequest, rules pricing.Rules) (string, error) {
	payload, err := json.Marshal(struct {
		Request pricing.QuoteRequest `json:"request"`
		Rules   pricing.Rules        `json:"rules"`
	}{req, rules})
	if err != nil {
		return "", fmt.Errorf("failed to encode preview key: %w", err)
	}

	sum := blake2b.Sum256(payload)
	return previewKeyPrefix + hex.EncodeToString(sum[:]), nil
}

// Get returns the cached result, or nil on a miss.
func (c *PreviewCache) Get(ctx context.Context, key string) (*pricing.Result, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preview cache: %w", err)
	}

	var result pricing.Result
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, fmt.Errorf("failed to decode cached preview: %w", err)
	}

	return &result, nil
}

func (c *PreviewCache) Set(ctx context.Context, key string, result *pricing.Result) error {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}

	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write preview cache: %w", err)
	}

	return nil
}
