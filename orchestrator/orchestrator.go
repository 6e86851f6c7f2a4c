// Package orchestrator implements MatchOrchestrator (spec §4.6): the
// top-level search() entry point tying QueryHygiene, StringPartitioner,
// PartitionEvaluator and Scorer together.
package orchestrator

import (
	"context"
	"errors"
	"sort"

	"github.com/trepgo/opentrep/evaluator"
	"github.com/trepgo/opentrep/hygiene"
	"github.com/trepgo/opentrep/index"
	"github.com/trepgo/opentrep/location"
	"github.com/trepgo/opentrep/matcher"
	"github.com/trepgo/opentrep/partition"
	"github.com/trepgo/opentrep/poterrors"
	"github.com/trepgo/opentrep/scorer"
)

// Options configures one Search call.
type Options struct {
	// MaxResults bounds how many Locations are returned (0 means
	// whatever the winning partition produces).
	MaxResults int
}

// Result is what Search returns: the matched Locations plus any cell
// text that could not be matched to a document (spec §4.6 step 5).
type Result struct {
	Locations      location.List
	UnmatchedWords []string
}

// Orchestrator runs search() against one Evaluator.
type Orchestrator struct {
	evaluator *evaluator.Evaluator
}

// New returns an Orchestrator driven by e.
func New(e *evaluator.Evaluator) *Orchestrator {
	return &Orchestrator{evaluator: e}
}

// Search runs the deterministic search algorithm (spec §4.6). The
// context's deadline, if any, is honoured in best-effort mode: once it
// expires, partition enumeration stops early and the best partition seen
// so far is returned rather than erroring (spec §5 "Timeouts").
func (o *Orchestrator) Search(ctx context.Context, raw string, opts Options) (Result, error) {
	norm := hygiene.Normalise(raw)
	toks := hygiene.Tokenise(norm)
	sets := partition.Enumerate(toks)

	var best evaluator.PartitionOutcome
	haveBest := false

	for _, set := range sets {
		if err := ctx.Err(); err != nil {
			deadline := errors.Is(err, context.DeadlineExceeded)
			if deadline && haveBest {
				break
			}
			kind := poterrors.Cancelled
			if deadline {
				kind = poterrors.DeadlineExceeded
			}
			return Result{}, poterrors.Wrap(kind, "search stopped", err)
		}

		outcome, err := o.evaluator.Evaluate(ctx, set)
		if err != nil {
			if errors.Is(err, context.Canceled) || poterrors.Is(err, poterrors.Cancelled) {
				return Result{}, poterrors.Wrap(poterrors.Cancelled, "search cancelled", err)
			}
			if deadlineExceeded(err) && haveBest {
				break
			}
			if deadlineExceeded(err) {
				return Result{}, poterrors.Wrap(poterrors.DeadlineExceeded, "search deadline exceeded before any partition evaluated", err)
			}
			return Result{}, err
		}

		if !haveBest || outperforms(outcome, best) {
			best = outcome
			haveBest = true
		}
	}

	if !haveBest {
		return Result{}, nil
	}

	return materialise(best, opts), nil
}

func deadlineExceeded(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || poterrors.Is(err, poterrors.DeadlineExceeded)
}

// outperforms reports whether candidate beats current under spec §4.3's
// tie-break: greater total_percent wins; on an exact tie, fewer cells
// wins; on a further tie, the lexicographically smaller cell sequence
// wins.
func outperforms(candidate, current evaluator.PartitionOutcome) bool {
	if candidate.TotalPercent != current.TotalPercent {
		return candidate.TotalPercent > current.TotalPercent
	}
	if len(candidate.Partition.Cells) != len(current.Partition.Cells) {
		return len(candidate.Partition.Cells) < len(current.Partition.Cells)
	}
	return lexLess(candidate.Partition.Cells, current.Partition.Cells)
}

func lexLess(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func materialise(outcome evaluator.PartitionOutcome, opts Options) Result {
	var result Result

	for _, cm := range outcome.CellMatches {
		if cm.None() {
			result.UnmatchedWords = append(result.UnmatchedWords, cm.Cell)
			continue
		}

		loc := toLocation(cm)
		result.Locations = append(result.Locations, loc)
	}

	if opts.MaxResults > 0 && len(result.Locations) > opts.MaxResults {
		result.Locations = result.Locations[:opts.MaxResults]
	}
	return result
}

func toLocation(cm matcher.CellMatch) location.Location {
	scored := make([]scoredDoc, len(cm.Documents))
	for i, d := range cm.Documents {
		s := scorer.Score(d.Percent, d.Document.Record, d.Document.Language)
		scored[i] = scoredDoc{match: d, score: s}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	primary := scored[0]
	loc := location.Location{
		Record:                *primary.match.Document.Record,
		MatchingPercentage:    cm.MatchPercent,
		EffectiveEditDistance: cm.EditDistance,
		AllowableEditDistance: cm.AllowableEditDistance,
		OriginalKeywords:      cm.Cell,
		CorrectedKeywords:     cm.MatchedString,
		Score:                 primary.score,
	}

	for _, s := range scored[1:] {
		extra := location.Location{
			Record:             *s.match.Document.Record,
			MatchingPercentage: s.match.Percent,
			Score:              s.score,
		}
		if s.match.Percent == primary.match.Percent {
			loc.ExtraMatches = append(loc.ExtraMatches, extra)
		} else {
			loc.AlternateMatches = append(loc.AlternateMatches, extra)
		}
	}

	return loc
}

type scoredDoc struct {
	match index.Match
	score float64
}
