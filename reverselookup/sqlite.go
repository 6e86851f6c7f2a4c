package reverselookup

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/trepgo/opentrep/location"
	"github.com/trepgo/opentrep/poterrors"
)

// SQLiteStore is a Store backed by the pure-Go modernc.org/sqlite driver,
// used when config.Config.SQLConfig.Type is "sqlite" (no CGo toolchain
// dependency, unlike mattn/go-sqlite3).
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if absent) the SQLite database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, poterrors.Wrap(poterrors.SqlDatabase, "open sqlite", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) InitSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(placeDetailsSchema, "INTEGER PRIMARY KEY AUTOINCREMENT", "TEXT"),
		placeNamesSchema,
		airportPagerankedSchema,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return poterrors.Wrap(poterrors.SqlDatabase, "init schema", err)
		}
	}
	return nil
}

func (s *SQLiteStore) CreateIndexes(ctx context.Context) error {
	for _, stmt := range placeDetailsIndexes {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return poterrors.Wrap(poterrors.SqlDatabase, "create index", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(ctx context.Context, clause string, arg any) (location.List, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT record_json FROM place_details WHERE "+clause, arg)
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

func (s *SQLiteStore) ByIATA(ctx context.Context, code string) (location.List, error) {
	return s.query(ctx, "iata_code = ?", code)
}

func (s *SQLiteStore) ByICAO(ctx context.Context, code string) (location.List, error) {
	return s.query(ctx, "icao_code = ?", code)
}

func (s *SQLiteStore) ByFAA(ctx context.Context, code string) (location.List, error) {
	return s.query(ctx, "faa_code = ?", code)
}

func (s *SQLiteStore) ByUNLOCODE(ctx context.Context, code string) (location.List, error) {
	return s.query(ctx, "unlocodes LIKE ?", unlocodePattern(code))
}

func (s *SQLiteStore) ByUICCode(ctx context.Context, code int64) (location.List, error) {
	return s.query(ctx, "uic_codes LIKE ?", uicPattern(code))
}

func (s *SQLiteStore) ByGeonameID(ctx context.Context, id int64) (location.List, error) {
	return s.query(ctx, "geonames_id = ?", id)
}

// Insert stores one document's full record.
func (s *SQLiteStore) Insert(ctx context.Context, rec *location.Record) error {
	raw, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO place_details (iata_code, icao_code, faa_code, geonames_id, unlocodes, uic_codes, page_rank, record_json)
		 VALUES (?,?,?,?,?,?,?,?)`,
		rec.Key.IATACode, rec.ICAOCode, rec.FAACode, rec.Key.GeonamesID,
		joinUNLOCODEs(rec.UNLOCODEs), joinUICCodes(rec.UICCodes), rec.PageRank, raw)
	if err != nil {
		return poterrors.Wrap(poterrors.SqlDatabase, "insert place_details", err)
	}
	documentID, err := res.LastInsertId()
	if err != nil {
		return poterrors.Wrap(poterrors.SqlDatabase, "read last insert id", err)
	}

	for lang, names := range rec.NameMatrix {
		for _, name := range names {
			if _, err := s.db.ExecContext(ctx,
				`INSERT INTO place_names (document_id, language, name) VALUES (?, ?, ?)`,
				documentID, lang, name); err != nil {
				return poterrors.Wrap(poterrors.SqlDatabase, "insert place_names", err)
			}
		}
	}
	return nil
}
