package index

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/trepgo/opentrep/levenshtein"
	"github.com/trepgo/opentrep/poterrors"
)

type indexedDoc struct {
	Document
	phrases [][]string // each registered term, tokenised; lowercase
}

// MemIndex is an in-memory Index, used as the interface-driven mock
// described in spec §9 Design Notes ("model InvertedIndex as an
// interface ... so a mock implementation drives tests without a real
// on-disk store"), and as the matching engine FileIndex snapshots into at
// load time.
type MemIndex struct {
	mu sync.RWMutex

	docs         map[DocumentID]*indexedDoc
	nextID       DocumentID
	wordPostings map[string]map[DocumentID]struct{}

	spellingFreq  map[string]int
	spellingOrder []string

	building bool
}

// NewMemIndex returns an empty MemIndex.
func NewMemIndex() *MemIndex {
	return &MemIndex{
		docs:         make(map[DocumentID]*indexedDoc),
		wordPostings: make(map[string]map[DocumentID]struct{}),
		spellingFreq: make(map[string]int),
	}
}

func (m *MemIndex) BeginBuild(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[DocumentID]*indexedDoc)
	m.wordPostings = make(map[string]map[DocumentID]struct{})
	m.spellingFreq = make(map[string]int)
	m.spellingOrder = nil
	m.nextID = 0
	m.building = true
	return nil
}

func (m *MemIndex) AddDocument(ctx context.Context, doc Document, terms, spellingTerms, stemmingTerms, synonymTerms []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.building {
		return poterrors.New(poterrors.IndexCorrupt, "add_document called outside begin_build/commit")
	}

	m.nextID++
	id := m.nextID
	doc.ID = id

	d := &indexedDoc{Document: doc}
	for _, term := range terms {
		words := strings.Fields(strings.ToLower(term))
		if len(words) == 0 {
			continue
		}
		d.phrases = append(d.phrases, words)
		for _, w := range words {
			if m.wordPostings[w] == nil {
				m.wordPostings[w] = make(map[DocumentID]struct{})
			}
			m.wordPostings[w][id] = struct{}{}
		}
	}
	m.docs[id] = d

	for _, term := range spellingTerms {
		t := strings.ToLower(term)
		if t == "" {
			continue
		}
		if _, seen := m.spellingFreq[t]; !seen {
			m.spellingOrder = append(m.spellingOrder, t)
		}
		m.spellingFreq[t]++
	}
	// Stemming/synonym terms are reserved by spec §4.7 and accepted but
	// unused in this build.
	_ = stemmingTerms
	_ = synonymTerms
	return nil
}

func (m *MemIndex) Commit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.building = false
	return nil
}

// phraseContains reports whether tokens appears, in order and adjacently,
// within phrase.
func phraseContains(phrase, tokens []string) bool {
	if len(tokens) > len(phrase) {
		return false
	}
	for start := 0; start+len(tokens) <= len(phrase); start++ {
		match := true
		for i, tok := range tokens {
			if phrase[start+i] != tok {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func (m *MemIndex) PhraseSearch(ctx context.Context, query string, topK int) (MatchSet, error) {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	candidates := m.wordPostings[tokens[0]]
	if len(candidates) == 0 {
		return nil, nil
	}
	candidateIDs := make([]DocumentID, 0, len(candidates))
	for id := range candidates {
		candidateIDs = append(candidateIDs, id)
	}
	// Map iteration order is randomised per-run; sort so that document
	// insertion order (not Go's map seed) feeds stableSortMatches below,
	// keeping ties (equal percent, equal Score) deterministic across runs
	// (spec §8 Testable Property 7).
	sort.Slice(candidateIDs, func(i, j int) bool { return candidateIDs[i] < candidateIDs[j] })
	for _, tok := range tokens[1:] {
		postings := m.wordPostings[tok]
		if len(postings) == 0 {
			return nil, nil
		}
		filtered := candidateIDs[:0]
		for _, id := range candidateIDs {
			if _, ok := postings[id]; ok {
				filtered = append(filtered, id)
			}
		}
		candidateIDs = filtered
		if len(candidateIDs) == 0 {
			return nil, nil
		}
	}

	var matches MatchSet
	for _, id := range candidateIDs {
		doc := m.docs[id]
		best := 0.0
		for _, phrase := range doc.phrases {
			if !phraseContains(phrase, tokens) {
				continue
			}
			var percent float64
			if len(phrase) == len(tokens) {
				percent = 100
			} else {
				percent = 100 * float64(len(tokens)) / float64(len(phrase))
				if percent >= 100 {
					percent = 99.9
				}
			}
			if percent > best {
				best = percent
			}
		}
		if best > 0 {
			matches = append(matches, Match{Document: doc.Document, Percent: best})
		}
	}

	matches = stableSortMatches(matches)
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// stableSortMatches orders by percent descending, preserving relative
// insertion order among ties (spec §4.7 tie-break: "first in insertion
// order is chosen" among equal-percentage documents).
func stableSortMatches(matches MatchSet) MatchSet {
	out := make(MatchSet, len(matches))
	copy(out, matches)
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && out[j-1].Percent < out[j].Percent {
			out[j-1], out[j] = out[j], out[j-1]
			j--
		}
	}
	return out
}

func (m *MemIndex) SpellingSuggestion(ctx context.Context, query string, maxDistance int) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	best := ""
	bestFreq := -1
	for _, phrase := range m.spellingOrder {
		if phrase == query {
			continue
		}
		if levenshtein.Distance(query, phrase) > maxDistance {
			continue
		}
		freq := m.spellingFreq[phrase]
		if freq > bestFreq {
			bestFreq = freq
			best = phrase
		}
	}
	if bestFreq < 0 {
		return "", false, nil
	}
	return best, true, nil
}

func (m *MemIndex) Document(ctx context.Context, id DocumentID) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[id]
	if !ok {
		return Document{}, poterrors.New(poterrors.IndexCorrupt, "document id not found")
	}
	return d.Document, nil
}

// DocumentCount returns the number of documents currently indexed.
func (m *MemIndex) DocumentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// snapshot captures MemIndex's full state for persistence by FileIndex.
type snapshot struct {
	Docs          map[DocumentID]docSnapshot
	WordPostings  map[string][]DocumentID
	SpellingFreq  map[string]int
	SpellingOrder []string
	NextID        DocumentID
}

type docSnapshot struct {
	Document
	Phrases [][]string
}

func (m *MemIndex) takeSnapshot() *snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := &snapshot{
		Docs:          make(map[DocumentID]docSnapshot, len(m.docs)),
		WordPostings:  make(map[string][]DocumentID, len(m.wordPostings)),
		SpellingFreq:  m.spellingFreq,
		SpellingOrder: m.spellingOrder,
		NextID:        m.nextID,
	}
	for id, d := range m.docs {
		s.Docs[id] = docSnapshot{Document: d.Document, Phrases: d.phrases}
	}
	for word, ids := range m.wordPostings {
		list := make([]DocumentID, 0, len(ids))
		for id := range ids {
			list = append(list, id)
		}
		s.WordPostings[word] = list
	}
	return s
}

func (m *MemIndex) restoreSnapshot(s *snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs = make(map[DocumentID]*indexedDoc, len(s.Docs))
	for id, d := range s.Docs {
		m.docs[id] = &indexedDoc{Document: d.Document, phrases: d.Phrases}
	}
	m.wordPostings = make(map[string]map[DocumentID]struct{}, len(s.WordPostings))
	for word, ids := range s.WordPostings {
		set := make(map[DocumentID]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		m.wordPostings[word] = set
	}
	m.spellingFreq = s.SpellingFreq
	if m.spellingFreq == nil {
		m.spellingFreq = make(map[string]int)
	}
	m.spellingOrder = s.SpellingOrder
	m.nextID = s.NextID
	m.building = false
}
