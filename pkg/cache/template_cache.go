package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTemplateCacheTTL applies when NewTemplateCache receives a zero TTL.
	DefaultTemplateCacheTTL = time.Hour

	templateCacheKeyPrefix = "website:template"
)

// CachedTemplate is the read model stored in Redis for published-site lookups.
// Document holds the template JSON exactly as the API returns it.
type CachedTemplate struct {
	SearchKey string
	Revision  int64
	IsActive  bool
	Document  []byte
}

// TemplateCache stores one Redis hash per template.
// Key format: "website:template:{searchKey}"
type TemplateCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewTemplateCache creates a TemplateCache backed by the given RedisClient.
func NewTemplateCache(r *RedisClient, ttl time.Duration) *TemplateCache {
	if ttl <= 0 {
		ttl = DefaultTemplateCacheTTL
	}
	return &TemplateCache{client: r, ttl: ttl}
}

// Get returns the cached template.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *TemplateCache) Get(ctx context.Context, searchKey string) (*CachedTemplate, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(searchKey)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}

	revision, err := strconv.ParseInt(vals["revision"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse revision: %w", err)
	}
	isActive, err := strconv.ParseBool(vals["is_active"])
	if err != nil {
		return nil, fmt.Errorf("cache parse is_active: %w", err)
	}

	return &CachedTemplate{
		SearchKey: searchKey,
		Revision:  revision,
		IsActive:  isActive,
		Document:  []byte(vals["document"]),
	}, nil
}

// setIfNotOlder replaces the hash unless it already holds a higher revision.
// KEYS[1] hash; ARGV revision, is_active, document, ttl in milliseconds.
var setIfNotOlder = redis.NewScript(`
local current = redis.call("HGET", KEYS[1], "revision")
if current and tonumber(current) > tonumber(ARGV[1]) then
  return 0
end
redis.call("HSET", KEYS[1], "revision", ARGV[1], "is_active", ARGV[2], "document", ARGV[3])
redis.call("PEXPIRE", KEYS[1], ARGV[4])
return 1
`)

// Set writes the template hash and its TTL atomically.
// An entry with a higher cached revision is not overwritten.
func (c *TemplateCache) Set(ctx context.Context, t *CachedTemplate) error {
	err := setIfNotOlder.Run(ctx, c.client.Client(), []string{c.key(t.SearchKey)},
		strconv.FormatInt(t.Revision, 10),
		strconv.FormatBool(t.IsActive),
		string(t.Document),
		c.ttl.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached template.
func (c *TemplateCache) Delete(ctx context.Context, searchKey string) error {
	if err := c.client.Client().Del(ctx, c.key(searchKey)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "website:template:{searchKey}"
func (c *TemplateCache) key(searchKey string) string {
	return fmt.Sprintf("%s:%s", templateCacheKeyPrefix, searchKey)
}
