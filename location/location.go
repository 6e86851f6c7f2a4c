package location

// Location is a Record plus match metadata, as returned to callers of the
// matching engine (spec §3).
type Location struct {
	Record

	MatchingPercentage     float64 // 0..100
	EffectiveEditDistance  uint32
	AllowableEditDistance  uint32
	OriginalKeywords       string
	CorrectedKeywords      string

	// Score is the composite ranking score from Scorer (spec §4.8); it is
	// not the same quantity as MatchingPercentage, which participates in
	// the partition product (spec §4.5) while Score only orders extras.
	Score float64

	ExtraMatches     []Location // same-percentage alternates
	AlternateMatches []Location // lower-ranked alternates
}

// List is an ordered sequence of Locations, one per matched partition cell
// (spec §3, QueryResult).
type List []Location

// IATACodes returns the IATA codes of every Location in the list, in order.
func (l List) IATACodes() []string {
	codes := make([]string, len(l))
	for i, loc := range l {
		codes[i] = loc.Key.IATACode
	}
	return codes
}
