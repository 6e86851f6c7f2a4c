package index

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCachedIndex(t *testing.T, backing ReadIndex) *CachedIndex {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCachedIndex(backing, client, "idx-test")
}

type countingIndex struct {
	ReadIndex
	calls int
}

func (c *countingIndex) PhraseSearch(ctx context.Context, query string, topK int) (MatchSet, error) {
	c.calls++
	return c.ReadIndex.PhraseSearch(ctx, query, topK)
}

func TestCachedIndexServesSecondLookupFromCache(t *testing.T) {
	mem := buildSample(t)
	counting := &countingIndex{ReadIndex: mem}
	cached := newTestCachedIndex(t, counting)

	ctx := context.Background()
	_, err := cached.PhraseSearch(ctx, "san francisco", 10)
	require.NoError(t, err)
	_, err = cached.PhraseSearch(ctx, "san francisco", 10)
	require.NoError(t, err)

	require.Equal(t, 1, counting.calls)
}

func TestCachedIndexInvalidateAllForcesRefetch(t *testing.T) {
	mem := buildSample(t)
	counting := &countingIndex{ReadIndex: mem}
	cached := newTestCachedIndex(t, counting)

	ctx := context.Background()
	_, err := cached.PhraseSearch(ctx, "san francisco", 10)
	require.NoError(t, err)
	require.NoError(t, cached.InvalidateAll(ctx))
	_, err = cached.PhraseSearch(ctx, "san francisco", 10)
	require.NoError(t, err)

	require.Equal(t, 2, counting.calls)
}
