package evaluator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trepgo/opentrep/filter"
	"github.com/trepgo/opentrep/index"
	"github.com/trepgo/opentrep/matcher"
	"github.com/trepgo/opentrep/partition"
)

func buildEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	idx := index.NewMemIndex()
	ctx := context.Background()
	require.NoError(t, idx.BeginBuild(ctx))
	require.NoError(t, idx.AddDocument(ctx, index.Document{Language: "std"},
		[]string{"san francisco"}, []string{"san francisco"}, nil, nil))
	require.NoError(t, idx.Commit(ctx))
	return New(matcher.New(filter.New(), idx))
}

func TestEvaluateSingleCellStabilisedBelow100(t *testing.T) {
	e := buildEvaluator(t)
	set := partition.StringSet{Cells: []string{"san francisco"}}

	outcome, err := e.Evaluate(context.Background(), set)
	require.NoError(t, err)
	assert.InDelta(t, StabilisedMatchPercent, outcome.TotalPercent, 1e-6)
}

func TestEvaluateSingleCellOutranksSplitCells(t *testing.T) {
	e := buildEvaluator(t)

	whole, err := e.Evaluate(context.Background(), partition.StringSet{Cells: []string{"san francisco"}})
	require.NoError(t, err)

	split, err := e.Evaluate(context.Background(), partition.StringSet{Cells: []string{"san", "francisco"}})
	require.NoError(t, err)

	assert.Greater(t, whole.TotalPercent, split.TotalPercent)
}

func TestEvaluateUnmatchedCellAppliesPenalty(t *testing.T) {
	e := buildEvaluator(t)
	set := partition.StringSet{Cells: []string{"zzzqqqxxx"}}

	outcome, err := e.Evaluate(context.Background(), set)
	require.NoError(t, err)
	assert.InDelta(t, UnmatchedCellPenalty, outcome.TotalPercent, 1e-9)
	require.Len(t, outcome.CellMatches, 1)
	assert.True(t, outcome.CellMatches[0].None())
}
