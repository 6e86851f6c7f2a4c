// Package scorer implements Scorer (spec §4.8): the composite score used
// to order a cell's extra_matches and alternate_matches.
package scorer

import "github.com/trepgo/opentrep/location"

// DefaultLanguageTag is the language a LocationRecord is considered to
// natively carry; any other language incurs the non-default penalty.
const DefaultLanguageTag = location.StdLanguage

// NonDefaultLanguagePenalty is applied once per non-default language a
// matched document represented (spec §4.8).
const NonDefaultLanguagePenalty = 0.95

// HistoricalEnvelopePenalty deprioritises, but does not exclude, records
// from a historical envelope (spec §4.8).
const HistoricalEnvelopePenalty = 0.5

// Score computes score = match_percent × page_rank_factor ×
// language_penalty × envelope_penalty for a document matched in language.
func Score(matchPercent float64, rec *location.Record, language string) float64 {
	pageRankFactor := 1.0 + rec.PageRank/100.0

	languagePenalty := 1.0
	if language != DefaultLanguageTag {
		languagePenalty = NonDefaultLanguagePenalty
	}

	envelopePenalty := 1.0
	if !rec.IsCurrentEnvelope() {
		envelopePenalty = HistoricalEnvelopePenalty
	}

	return matchPercent * pageRankFactor * languagePenalty * envelopePenalty
}
