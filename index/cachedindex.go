package index

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SearchResultTTL bounds how long a phrase_search result is cached before
// a fresh lookup against the backing index is required.
const SearchResultTTL = 5 * time.Minute

// CachedIndex decorates a ReadIndex with a Redis read-through cache over
// PhraseSearch results, adapted from the prefixed get/set/delete shape of
// pkg/cache/cache.go's RedisCache. Only the read path is cached: the
// write path is exclusive and offline (spec §5). Cached entries are not
// kept coherent with index writes: an entry lives for SearchResultTTL
// unless InvalidateAll drops every entry under the prefix first.
type CachedIndex struct {
	backing ReadIndex
	client  *redis.Client
	prefix  string
	ttl     time.Duration
}

// NewCachedIndex wraps backing with a Redis cache. prefix namespaces keys
// so multiple indexes can share one Redis instance.
func NewCachedIndex(backing ReadIndex, client *redis.Client, prefix string) *CachedIndex {
	return &CachedIndex{backing: backing, client: client, prefix: prefix, ttl: SearchResultTTL}
}

func (c *CachedIndex) key(parts ...string) string {
	k := c.prefix
	for _, p := range parts {
		k = k + ":" + p
	}
	return k
}

func (c *CachedIndex) PhraseSearch(ctx context.Context, query string, topK int) (MatchSet, error) {
	key := c.key("phrase", fmt.Sprintf("%d", topK), query)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var matches MatchSet
		if jsonErr := json.Unmarshal([]byte(cached), &matches); jsonErr == nil {
			return matches, nil
		}
	}

	matches, err := c.backing.PhraseSearch(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(matches); jsonErr == nil {
		_ = c.client.Set(ctx, key, data, c.ttl).Err()
	}
	return matches, nil
}

func (c *CachedIndex) SpellingSuggestion(ctx context.Context, query string, maxDistance int) (string, bool, error) {
	// Spelling suggestion is already a bounded scan and runs rarely
	// relative to phrase_search (only on zero-result cells, spec §4.4);
	// caching it would add staleness risk for little benefit.
	return c.backing.SpellingSuggestion(ctx, query, maxDistance)
}

func (c *CachedIndex) Document(ctx context.Context, id DocumentID) (Document, error) {
	return c.backing.Document(ctx, id)
}

// InvalidateAll drops every cached entry under this index's prefix. Call
// after a rebuild commits a new index snapshot.
func (c *CachedIndex) InvalidateAll(ctx context.Context) error {
	pattern := c.key("*")
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
