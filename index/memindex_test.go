package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSample(t *testing.T) *MemIndex {
	t.Helper()
	idx := NewMemIndex()
	ctx := context.Background()
	require.NoError(t, idx.BeginBuild(ctx))

	require.NoError(t, idx.AddDocument(ctx, Document{Language: "std"},
		[]string{"san francisco", "sfo"},
		[]string{"san francisco"}, nil, nil))
	require.NoError(t, idx.AddDocument(ctx, Document{Language: "std"},
		[]string{"san diego", "san"},
		[]string{"san diego"}, nil, nil))
	require.NoError(t, idx.AddDocument(ctx, Document{Language: "std"},
		[]string{"paris"},
		[]string{"paris"}, nil, nil))

	require.NoError(t, idx.Commit(ctx))
	return idx
}

func TestPhraseSearchExactMatchScores100(t *testing.T) {
	idx := buildSample(t)
	matches, err := idx.PhraseSearch(context.Background(), "san francisco", 10)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, 100.0, matches[0].Percent)
}

func TestPhraseSearchPartialContainmentScoresBelow100(t *testing.T) {
	idx := buildSample(t)
	matches, err := idx.PhraseSearch(context.Background(), "francisco", 10)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Less(t, m.Percent, 100.0)
	}
}

func TestPhraseSearchNoCandidatesReturnsEmpty(t *testing.T) {
	idx := buildSample(t)
	matches, err := idx.PhraseSearch(context.Background(), "tokyo", 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestPhraseSearchRespectsTopK(t *testing.T) {
	idx := buildSample(t)
	matches, err := idx.PhraseSearch(context.Background(), "san", 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(matches), 1)
}

func TestSpellingSuggestionFindsWithinDistance(t *testing.T) {
	idx := buildSample(t)
	suggestion, ok, err := idx.SpellingSuggestion(context.Background(), "pariz", 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "paris", suggestion)
}

func TestSpellingSuggestionRejectsBeyondDistance(t *testing.T) {
	idx := buildSample(t)
	_, ok, err := idx.SpellingSuggestion(context.Background(), "zzzzzzzzzz", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddDocumentOutsideBuildFails(t *testing.T) {
	idx := NewMemIndex()
	err := idx.AddDocument(context.Background(), Document{}, []string{"x"}, nil, nil, nil)
	assert.Error(t, err)
}

func TestPhraseSearchTiedMatchesAreDeterministicAcrossCalls(t *testing.T) {
	idx := NewMemIndex()
	ctx := context.Background()
	require.NoError(t, idx.BeginBuild(ctx))
	require.NoError(t, idx.AddDocument(ctx, Document{Language: "std"},
		[]string{"paris"}, []string{"paris"}, nil, nil))
	require.NoError(t, idx.AddDocument(ctx, Document{Language: "std"},
		[]string{"paris"}, []string{"paris"}, nil, nil))
	require.NoError(t, idx.Commit(ctx))

	first, err := idx.PhraseSearch(ctx, "paris", 10)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := idx.PhraseSearch(ctx, "paris", 10)
		require.NoError(t, err)
		require.Len(t, again, len(first))
		for j := range first {
			assert.Equal(t, first[j].Document.ID, again[j].Document.ID)
		}
	}
}

func TestDocumentLookupByID(t *testing.T) {
	idx := buildSample(t)
	matches, err := idx.PhraseSearch(context.Background(), "paris", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	doc, err := idx.Document(context.Background(), matches[0].Document.ID)
	require.NoError(t, err)
	assert.Equal(t, "std", doc.Language)
}
