// Package reverselookup implements ReverseLookup (spec §4.9): six
// parallel lookup operations served from a persistent SQL store, keyed on
// IATA/ICAO/FAA code, UN/LOCODE, UIC code, or Geonames id.
package reverselookup

import (
	"context"

	"github.com/trepgo/opentrep/location"
)

// Store is the persistence-agnostic contract both the Postgres and
// SQLite implementations satisfy. Every method returns all language rows
// for the matching POR(s); the caller performs language selection (spec
// §4.9).
type Store interface {
	ByIATA(ctx context.Context, code string) (location.List, error)
	ByICAO(ctx context.Context, code string) (location.List, error)
	ByFAA(ctx context.Context, code string) (location.List, error)
	ByUNLOCODE(ctx context.Context, code string) (location.List, error)
	ByUICCode(ctx context.Context, code int64) (location.List, error)
	ByGeonameID(ctx context.Context, id int64) (location.List, error)

	// InitSchema creates place_details/place_names/airport_pageranked if
	// they do not already exist (spec §6.4).
	InitSchema(ctx context.Context) error
	// CreateIndexes adds the lookup indexes over place_details' key
	// columns; split from InitSchema so the shell's create_tables and
	// create_indexes commands (spec §6.2) can be run independently.
	CreateIndexes(ctx context.Context) error

	Close() error
}

// placeDetailsSchema and friends are shared DDL fragments; %s is the
// driver-specific primary-key/blob type (BIGSERIAL/jsonb for Postgres,
// INTEGER/TEXT for SQLite).
const placeDetailsSchema = `
CREATE TABLE IF NOT EXISTS place_details (
	document_id  %s,
	iata_code    TEXT,
	icao_code    TEXT,
	faa_code     TEXT,
	geonames_id  BIGINT,
	unlocodes    TEXT,
	uic_codes    TEXT,
	page_rank    DOUBLE PRECISION,
	record_json  %s
)`

const placeNamesSchema = `
CREATE TABLE IF NOT EXISTS place_names (
	document_id BIGINT,
	language    TEXT,
	name        TEXT
)`

const airportPagerankedSchema = `
CREATE TABLE IF NOT EXISTS airport_pageranked (
	document_id BIGINT PRIMARY KEY,
	page_rank   DOUBLE PRECISION
)`

var placeDetailsIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_place_details_iata ON place_details (iata_code)`,
	`CREATE INDEX IF NOT EXISTS idx_place_details_icao ON place_details (icao_code)`,
	`CREATE INDEX IF NOT EXISTS idx_place_details_faa ON place_details (faa_code)`,
	`CREATE INDEX IF NOT EXISTS idx_place_details_geonames ON place_details (geonames_id)`,
	`CREATE INDEX IF NOT EXISTS idx_place_names_document ON place_names (document_id, language)`,
}

// unlocodeDelimiter/uicDelimiter separate the multiple UN/LOCODEs or UIC
// codes a single record may carry within place_details' denormalised text
// columns, searched with a delimiter-anchored LIKE pattern rather than a
// join table (a pragmatic simplification for this collaborator: it is not
// on the matching engine's hot path, spec §5).
const unlocodeDelimiter = ","
const uicDelimiter = ","
