package matcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trepgo/opentrep/filter"
	"github.com/trepgo/opentrep/index"
)

func buildIndex(t *testing.T) index.Index {
	t.Helper()
	idx := index.NewMemIndex()
	ctx := context.Background()
	require.NoError(t, idx.BeginBuild(ctx))
	require.NoError(t, idx.AddDocument(ctx, index.Document{Language: "std"},
		[]string{"san francisco"}, []string{"san francisco"}, nil, nil))
	require.NoError(t, idx.Commit(ctx))
	return idx
}

func TestMatchCellExactPhraseHasZeroEditDistance(t *testing.T) {
	idx := buildIndex(t)
	m := New(filter.New(), idx)

	got, err := m.MatchCell(context.Background(), "san francisco")
	require.NoError(t, err)
	assert.False(t, got.None())
	assert.Equal(t, "san francisco", got.MatchedString)
	assert.EqualValues(t, 0, got.EditDistance)
	assert.EqualValues(t, 0, got.AllowableEditDistance)
}

func TestMatchCellCorrectsMisspelling(t *testing.T) {
	idx := buildIndex(t)
	m := New(filter.New(), idx)

	got, err := m.MatchCell(context.Background(), "san francsico")
	require.NoError(t, err)
	assert.False(t, got.None())
	assert.Equal(t, "san francisco", got.MatchedString)
	assert.Greater(t, got.EditDistance, uint32(0))
}

func TestMatchCellRejectsNoiseCell(t *testing.T) {
	idx := buildIndex(t)
	f := filter.New()
	f.AddNoiseWord("the")
	m := New(f, idx)

	got, err := m.MatchCell(context.Background(), "the")
	require.NoError(t, err)
	assert.True(t, got.None())
}

func TestMatchCellUnmatchableReturnsNone(t *testing.T) {
	idx := buildIndex(t)
	m := New(filter.New(), idx)

	got, err := m.MatchCell(context.Background(), "zzzqqqxxx")
	require.NoError(t, err)
	assert.True(t, got.None())
}

func TestAllowableEditDistanceHasFloorOfTwo(t *testing.T) {
	assert.Equal(t, 2, allowableEditDistance("ab"))
	assert.Equal(t, 2, allowableEditDistance("abcd"))
	assert.Equal(t, 3, allowableEditDistance("abcdefghijkl"))
}
