// Package matcher implements SubstringMatcher (spec §4.4): turning one
// partition cell into a phrase-search-or-spelling-corrected document
// match.
package matcher

import (
	"context"

	"github.com/trepgo/opentrep/filter"
	"github.com/trepgo/opentrep/index"
	"github.com/trepgo/opentrep/levenshtein"
	"github.com/trepgo/opentrep/poterrors"
)

// topK bounds how many candidate documents the index is asked for per
// cell; all of them are kept in the CellMatch, and the orchestrator picks
// the primary by score while the rest feed ExtraMatches/AlternateMatches.
const topK = 10

// minAllowableEditDistance is the floor under which the spelling budget
// never drops, even for very short cells.
const minAllowableEditDistance = 2

// CellMatch is the outcome of matching one partition cell.
type CellMatch struct {
	Cell                  string
	MatchedString         string
	Documents             index.MatchSet
	MatchPercent          float64
	EditDistance          uint32
	AllowableEditDistance uint32
}

// None reports whether this CellMatch carries no match (spec §4.4
// CellMatch::none()).
func (m CellMatch) None() bool {
	return len(m.Documents) == 0
}

// Matcher runs match_cell against a filter and a read index.
type Matcher struct {
	filter *filter.Filter
	idx    index.ReadIndex
}

// New returns a Matcher over idx, rejecting noise cells per f.
func New(f *filter.Filter, idx index.ReadIndex) *Matcher {
	return &Matcher{filter: f, idx: idx}
}

// MatchCell runs the deterministic match_cell algorithm (spec §4.4).
func (m *Matcher) MatchCell(ctx context.Context, cell string) (CellMatch, error) {
	if !m.filter.ShouldKeep("", cell) {
		return CellMatch{Cell: cell}, nil
	}

	docs, err := m.idx.PhraseSearch(ctx, cell, topK)
	if err != nil {
		return CellMatch{}, err
	}
	if len(docs) > 0 {
		return CellMatch{
			Cell:          cell,
			MatchedString: cell,
			Documents:     docs,
			MatchPercent:  docs[0].Percent,
		}, nil
	}

	allowable := allowableEditDistance(cell)
	suggestion, ok, err := m.idx.SpellingSuggestion(ctx, cell, allowable)
	if err != nil {
		return CellMatch{}, err
	}
	if !ok || suggestion == "" || suggestion == cell {
		return CellMatch{Cell: cell}, nil
	}

	dist := levenshtein.Distance(cell, suggestion)

	docs, err = m.idx.PhraseSearch(ctx, suggestion, topK)
	if err != nil {
		return CellMatch{}, err
	}
	if len(docs) == 0 {
		poterrors.MustNotHappen("spelling suggestion accepted by index but phrase_search on it returned nothing: " + cell + " -> " + suggestion)
	}

	return CellMatch{
		Cell:                  cell,
		MatchedString:         suggestion,
		Documents:             docs,
		MatchPercent:          docs[0].Percent,
		EditDistance:          uint32(dist),
		AllowableEditDistance: uint32(allowable),
	}, nil
}

// allowableEditDistance computes ⌊len(cell)/4⌋ floored at
// minAllowableEditDistance, counted over codepoints (spec §4.4 step 4).
func allowableEditDistance(cell string) int {
	n := len([]rune(cell))
	allowable := n / 4
	if allowable < minAllowableEditDistance {
		allowable = minAllowableEditDistance
	}
	return allowable
}
