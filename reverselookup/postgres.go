package reverselookup

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/trepgo/opentrep/location"
	"github.com/trepgo/opentrep/poterrors"
)

// PostgresStore is a Store backed by a pgxpool.Pool, adapted from the
// teacher's pool-and-prepared-statement style in db/postgres.go.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a PostgresStore over an already-configured pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// OpenPostgresStore connects to connString and returns a ready PostgresStore.
func OpenPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, poterrors.Wrap(poterrors.SqlDatabase, "connect postgres", err)
	}
	return NewPostgresStore(pool), nil
}

func (s *PostgresStore) InitSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(placeDetailsSchema, "BIGSERIAL PRIMARY KEY", "JSONB"),
		placeNamesSchema,
		airportPagerankedSchema,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return poterrors.Wrap(poterrors.SqlDatabase, "init schema", err)
		}
	}
	return nil
}

func (s *PostgresStore) CreateIndexes(ctx context.Context) error {
	for _, stmt := range placeDetailsIndexes {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return poterrors.Wrap(poterrors.SqlDatabase, "create index", err)
		}
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) query(ctx context.Context, clause string, arg any) (location.List, error) {
	rows, err := s.pool.Query(ctx, "SELECT record_json FROM place_details WHERE "+clause, arg)
	if err != nil {
		return nil, poterrors.Wrap(poterrors.SqlDatabase, "reverse lookup query", err)
	}
	defer rows.Close()

	var list location.List
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, poterrors.Wrap(poterrors.SqlDatabase, "scan record_json", err)
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		list = append(list, location.Location{Record: *rec})
	}
	return list, rows.Err()
}

func (s *PostgresStore) ByIATA(ctx context.Context, code string) (location.List, error) {
	return s.query(ctx, "iata_code = $1", code)
}

func (s *PostgresStore) ByICAO(ctx context.Context, code string) (location.List, error) {
	return s.query(ctx, "icao_code = $1", code)
}

func (s *PostgresStore) ByFAA(ctx context.Context, code string) (location.List, error) {
	return s.query(ctx, "faa_code = $1", code)
}

func (s *PostgresStore) ByUNLOCODE(ctx context.Context, code string) (location.List, error) {
	return s.query(ctx, "unlocodes LIKE $1", unlocodePattern(code))
}

func (s *PostgresStore) ByUICCode(ctx context.Context, code int64) (location.List, error) {
	return s.query(ctx, "uic_codes LIKE $1", uicPattern(code))
}

func (s *PostgresStore) ByGeonameID(ctx context.Context, id int64) (location.List, error) {
	return s.query(ctx, "geonames_id = $1", id)
}

// Insert stores one document's full record; used by the builder pipeline
// that populates place_details/place_names alongside the InvertedIndex.
func (s *PostgresStore) Insert(ctx context.Context, rec *location.Record) error {
	raw, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO place_details (iata_code, icao_code, faa_code, geonames_id, unlocodes, uic_codes, page_rank, record_json)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.Key.IATACode, rec.ICAOCode, rec.FAACode, rec.Key.GeonamesID,
		joinUNLOCODEs(rec.UNLOCODEs), joinUICCodes(rec.UICCodes), rec.PageRank, raw)
	if err != nil {
		return poterrors.Wrap(poterrors.SqlDatabase, "insert place_details", err)
	}

	for lang, names := range rec.NameMatrix {
		for _, name := range names {
			if _, err := s.pool.Exec(ctx,
				`INSERT INTO place_names (document_id, language, name) VALUES (
					(SELECT document_id FROM place_details WHERE iata_code=$1 AND geonames_id=$2), $3, $4)`,
				rec.Key.IATACode, rec.Key.GeonamesID, lang, name); err != nil {
				return poterrors.Wrap(poterrors.SqlDatabase, "insert place_names", err)
			}
		}
	}
	return nil
}
