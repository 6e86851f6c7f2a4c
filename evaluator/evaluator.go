// Package evaluator implements PartitionEvaluator (spec §4.5): scoring one
// StringSet partition as the product of its cells' match percentages.
package evaluator

import (
	"context"
	"math"

	"github.com/trepgo/opentrep/matcher"
	"github.com/trepgo/opentrep/partition"
)

// StabilisedMatchPercent replaces a cell's match_percent when it lands
// within floatEpsilon of 100.0 (spec §4.5), so a single cell spanning the
// whole query strictly outranks a same-source multi-cell partition.
const StabilisedMatchPercent = 99.999

// UnmatchedCellPenalty is the absolute percent-space penalty applied for
// each cell that did not match anything (spec §4.5: "0.05 (absolute; NOT
// a percent)").
const UnmatchedCellPenalty = 0.05

const floatEpsilon = 1e-9

// PartitionOutcome is the scored result of evaluating one partition.
type PartitionOutcome struct {
	Partition    partition.StringSet
	TotalPercent float64
	CellMatches  []matcher.CellMatch
}

// Evaluator scores partitions by running SubstringMatcher over each cell.
type Evaluator struct {
	matcher          *matcher.Matcher
	unmatchedPenalty float64
}

// Option configures an Evaluator away from its spec defaults.
type Option func(*Evaluator)

// WithUnmatchedCellPenalty overrides UnmatchedCellPenalty, allowing
// config.Config.MatchingConfig.UnmatchedCellPenalty to tune the stabiliser
// spec.md §9's Open Questions leave implementation-defined.
func WithUnmatchedCellPenalty(p float64) Option {
	return func(e *Evaluator) { e.unmatchedPenalty = p }
}

// New returns an Evaluator driven by m.
func New(m *matcher.Matcher, opts ...Option) *Evaluator {
	e := &Evaluator{matcher: m, unmatchedPenalty: UnmatchedCellPenalty}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs the deterministic evaluate algorithm (spec §4.5).
func (e *Evaluator) Evaluate(ctx context.Context, set partition.StringSet) (PartitionOutcome, error) {
	outcome := PartitionOutcome{Partition: set, TotalPercent: 100.0}

	for _, cell := range set.Cells {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		cm, err := e.matcher.MatchCell(ctx, cell)
		if err != nil {
			return outcome, err
		}

		var p float64
		if !cm.None() {
			p = cm.MatchPercent
			if math.Abs(p-100.0) < floatEpsilon {
				p = StabilisedMatchPercent
			}
		} else {
			p = e.unmatchedPenalty
		}

		outcome.TotalPercent = outcome.TotalPercent * p / 100.0
		outcome.CellMatches = append(outcome.CellMatches, cm)
	}

	return outcome, nil
}
