package index

import (
	"context"
	"strconv"
	"strings"

	"github.com/trepgo/opentrep/location"
	"github.com/trepgo/opentrep/poterrors"
)

// Builder drives the offline write path: it iterates a catalog of
// location.Record values and emits (document, terms) pairs to a
// WriteIndex (spec §4.7, "Term generation by IndexBuilder").
type Builder struct {
	dest WriteIndex
}

// NewBuilder returns a Builder writing into dest.
func NewBuilder(dest WriteIndex) *Builder {
	return &Builder{dest: dest}
}

// Rebuild replaces the entire index contents with one document per
// (record, language) pair drawn from records.
func (b *Builder) Rebuild(ctx context.Context, records []*location.Record) error {
	if err := b.dest.BeginBuild(ctx); err != nil {
		return poterrors.Wrap(poterrors.IndexCorrupt, "begin_build", err)
	}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return poterrors.Wrap(poterrors.Cancelled, "rebuild interrupted", err)
		}
		if err := b.addRecord(ctx, rec); err != nil {
			return err
		}
	}
	if err := b.dest.Commit(ctx); err != nil {
		return poterrors.Wrap(poterrors.IndexCorrupt, "commit", err)
	}
	return nil
}

func (b *Builder) addRecord(ctx context.Context, rec *location.Record) error {
	commonTerms := CommonTerms(rec)

	languages := rec.NameMatrix.AllLanguages()
	if len(languages) == 0 {
		languages = []string{location.StdLanguage}
	}
	for _, lang := range languages {
		terms := append([]string{}, commonTerms...)
		if names, ok := rec.NameMatrix.Names(lang); ok {
			terms = append(terms, names...)
		}
		for _, alt := range rec.AltNames {
			if alt.Language == lang {
				terms = append(terms, alt.Name)
			}
		}

		doc := Document{Key: rec.Key, Language: lang, Record: rec}
		if err := b.dest.AddDocument(ctx, doc, terms, terms, nil, nil); err != nil {
			return poterrors.Wrap(poterrors.IndexCorrupt, "add_document", err)
		}
	}
	return nil
}

// CommonTerms returns the language-independent terms spec §4.7 requires
// IndexBuilder to emit for every document of a record: codes, city/state/
// country identifiers, and UN/LOCODE and UIC lists as strings.
func CommonTerms(rec *location.Record) []string {
	var terms []string
	add := func(s string) {
		if s != "" {
			terms = append(terms, s)
		}
	}

	add(strings.ToUpper(rec.Key.IATACode))
	add(strings.ToUpper(rec.ICAOCode))
	add(strings.ToUpper(rec.FAACode))
	add(rec.CommonName)
	add(rec.ASCIIName)
	add(rec.CityCode)
	add(rec.StateCode)
	add(rec.CountryCode)
	add(rec.CountryName)

	for _, u := range rec.UNLOCODEs {
		add(u.Code)
	}
	for _, u := range rec.UICCodes {
		add(strconv.FormatInt(u.Code, 10))
	}
	return terms
}
