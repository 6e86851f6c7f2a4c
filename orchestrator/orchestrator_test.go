package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trepgo/opentrep/evaluator"
	"github.com/trepgo/opentrep/filter"
	"github.com/trepgo/opentrep/index"
	"github.com/trepgo/opentrep/location"
	"github.com/trepgo/opentrep/matcher"
)

func buildOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	idx := index.NewMemIndex()
	ctx := context.Background()
	require.NoError(t, idx.BeginBuild(ctx))

	sfo := &location.Record{
		Key:        location.Key{IATACode: "SFO", IATAType: location.Airport},
		CommonName: "san francisco",
		PageRank:   50,
	}
	require.NoError(t, idx.AddDocument(ctx, index.Document{Language: "std", Record: sfo},
		[]string{"san francisco"}, []string{"san francisco"}, nil, nil))
	require.NoError(t, idx.Commit(ctx))

	m := matcher.New(filter.New(), idx)
	e := evaluator.New(m)
	return New(e)
}

func TestSearchFindsExactPhrase(t *testing.T) {
	o := buildOrchestrator(t)
	result, err := o.Search(context.Background(), "San Francisco", Options{})
	require.NoError(t, err)
	require.Len(t, result.Locations, 1)
	assert.Equal(t, "SFO", result.Locations[0].Key.IATACode)
	assert.Empty(t, result.UnmatchedWords)
}

func TestSearchReportsUnmatchedWords(t *testing.T) {
	o := buildOrchestrator(t)
	result, err := o.Search(context.Background(), "zzzqqqxxx", Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Locations)
	assert.NotEmpty(t, result.UnmatchedWords)
}

func TestSearchIsDeterministicAcrossCalls(t *testing.T) {
	o := buildOrchestrator(t)
	first, err := o.Search(context.Background(), "San Francisco", Options{})
	require.NoError(t, err)
	second, err := o.Search(context.Background(), "San Francisco", Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSearchHonoursAlreadyExpiredDeadlineWithNoPriorBest(t *testing.T) {
	o := buildOrchestrator(t)
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := o.Search(ctx, "San Francisco", Options{})
	assert.Error(t, err)
}
