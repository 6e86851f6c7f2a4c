package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trepgo/opentrep/location"
)

func sampleRecord() *location.Record {
	rec := &location.Record{
		Key:         location.Key{IATACode: "SFO", IATAType: location.Airport},
		ICAOCode:    "KSFO",
		CommonName:  "san francisco",
		ASCIIName:   "san francisco",
		CityCode:    "SFO",
		CountryCode: "US",
		CountryName: "united states",
		PageRank:    80,
		NameMatrix:  location.NameMatrix{},
	}
	rec.NameMatrix.AddName(location.StdLanguage, "san francisco")
	rec.NameMatrix.AddName("fr", "san francisco")
	return rec
}

func TestCommonTermsIncludesCodesAndNames(t *testing.T) {
	rec := sampleRecord()
	terms := CommonTerms(rec)
	assert.Contains(t, terms, "SFO")
	assert.Contains(t, terms, "KSFO")
	assert.Contains(t, terms, "san francisco")
	assert.Contains(t, terms, "united states")
}

func TestBuilderRebuildProducesOneDocumentPerLanguage(t *testing.T) {
	idx := NewMemIndex()
	b := NewBuilder(idx)
	require.NoError(t, b.Rebuild(context.Background(), []*location.Record{sampleRecord()}))

	matches, err := idx.PhraseSearch(context.Background(), "san francisco", 10)
	require.NoError(t, err)
	assert.Len(t, matches, 2) // std + fr documents both carry the phrase
	for _, m := range matches {
		assert.Equal(t, 100.0, m.Percent)
	}
}

func TestBuilderRebuildIsCancellable(t *testing.T) {
	idx := NewMemIndex()
	b := NewBuilder(idx)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := b.Rebuild(ctx, []*location.Record{sampleRecord()})
	assert.Error(t, err)
}
