package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trepgo/opentrep/location"
)

func TestScorePageRankDoublesAtMaxRank(t *testing.T) {
	rec := &location.Record{PageRank: 100, EnvelopeID: 0}
	got := Score(80, rec, DefaultLanguageTag)
	assert.InDelta(t, 160, got, 1e-9)
}

func TestScoreAppliesLanguagePenaltyOnce(t *testing.T) {
	rec := &location.Record{PageRank: 0}
	def := Score(80, rec, DefaultLanguageTag)
	other := Score(80, rec, "pt")
	assert.InDelta(t, def*NonDefaultLanguagePenalty, other, 1e-9)
}

func TestScoreAppliesHistoricalEnvelopePenalty(t *testing.T) {
	rec := &location.Record{PageRank: 0, EnvelopeID: 7}
	got := Score(80, rec, DefaultLanguageTag)
	assert.InDelta(t, 80*HistoricalEnvelopePenalty, got, 1e-9)
}

func TestScoreHigherPageRankOutscoresLowerAtEqualMatchPercent(t *testing.T) {
	high := &location.Record{PageRank: 90}
	low := &location.Record{PageRank: 5}
	assert.Greater(t, Score(100, high, DefaultLanguageTag), Score(100, low, DefaultLanguageTag))
}
