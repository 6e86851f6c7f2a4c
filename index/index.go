// Package index implements InvertedIndex (spec §4.7): an on-disk inverted
// index over POR-derived terms, a spelling dictionary, and a document
// store, plus the IndexBuilder write path (spec §2, §4.7).
package index

import (
	"context"

	"github.com/trepgo/opentrep/location"
)

// DocumentID identifies one (LocationRecord, language) document. Fixed at
// 64 bits per spec §9 Design Notes ("integer width of node/document counts").
type DocumentID int64

// Document is the internal unit InvertedIndex stores: one language-variant
// of one LocationRecord (spec §3, "Index document").
type Document struct {
	ID       DocumentID
	Key      location.Key
	Language string
	Record   *location.Record
}

// Match pairs a Document with its phrase_search percentage score.
type Match struct {
	Document Document
	Percent  float64
}

// MatchSet is an ordered set of Matches, highest percentage first; equal
// percentages preserve insertion order (spec §4.7 tie-break).
type MatchSet []Match

// ReadIndex is the query-time contract (spec §4.7 "External contract (read path)").
type ReadIndex interface {
	// PhraseSearch returns up to topK documents whose indexed term
	// sequence contains query's tokens in order and adjacent.
	PhraseSearch(ctx context.Context, query string, topK int) (MatchSet, error)
	// SpellingSuggestion returns a stored phrase within maxDistance edits
	// of query that maximises corpus frequency, or ok=false if none
	// qualifies.
	SpellingSuggestion(ctx context.Context, query string, maxDistance int) (suggestion string, ok bool, err error)
	// Document returns the document with the given id.
	Document(ctx context.Context, id DocumentID) (Document, error)
}

// WriteIndex is the offline build contract (spec §4.7 "External contract (write path, offline)").
type WriteIndex interface {
	BeginBuild(ctx context.Context) error
	// AddDocument registers one document's terms. terms are used for
	// exact phrase search; spellingTerms populate the spelling
	// dictionary; stemmingTerms/synonymTerms are reserved (may be empty,
	// spec §4.7).
	AddDocument(ctx context.Context, doc Document, terms, spellingTerms, stemmingTerms, synonymTerms []string) error
	Commit(ctx context.Context) error
}

// Index is the full read+write contract. Concrete stores (MemIndex,
// FileIndex) implement it; CachedIndex only decorates ReadIndex, since the
// write path is exclusive and offline (spec §5).
type Index interface {
	ReadIndex
	WriteIndex
}
