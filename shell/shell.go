// Package shell implements the interactive command-line REPL (spec
// §6.2): a line-oriented command dispatcher reminiscent of the original
// opentrep-dbmgr tool, adapted to Go idioms (bufio.Scanner over stdin
// instead of a readline completer).
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/trepgo/opentrep/config"
	"github.com/trepgo/opentrep/index"
	"github.com/trepgo/opentrep/location"
	"github.com/trepgo/opentrep/orchestrator"
	"github.com/trepgo/opentrep/pkg/logger"
	"github.com/trepgo/opentrep/porfile"
	"github.com/trepgo/opentrep/reverselookup"
)

// errQuit is returned internally by dispatch to unwind the Run loop on a
// "quit" command; Run treats it the same as EOF.
var errQuit = errors.New("quit")

const listPageSize = 20

// listableIndex is satisfied by MemIndex and FileIndex; it is not part of
// index.ReadIndex because enumeration is a shell-only concern, not part
// of the query-time contract (spec §4.7).
type listableIndex interface {
	index.ReadIndex
	DocumentCount() int
}

// Shell runs the command loop against a catalog and (optionally) a
// reverse-lookup store and index builder.
type Shell struct {
	cfg          *config.Config
	orchestrator *orchestrator.Orchestrator
	idx          listableIndex
	store        reverselookup.Store
	log          *logger.Logger

	listOffset int
}

// New builds a Shell. store may be nil if sqldbtype is "nodb".
func New(cfg *config.Config, o *orchestrator.Orchestrator, idx listableIndex, store reverselookup.Store, log *logger.Logger) *Shell {
	return &Shell{cfg: cfg, orchestrator: o, idx: idx, store: store, log: log}
}

// Run reads commands from in, one per line, writing responses to out.
// It returns nil on EOF or "quit", and a non-nil error only for an
// unhandled internal failure (spec §6.2: "non-zero on unhandled error").
func (s *Shell) Run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "opentrep-dbmgr> type 'help' for a list of commands")
	for {
		fmt.Fprint(out, "opentrep> ")
		if !scanner.Scan() {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := s.dispatch(context.Background(), line, out); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func (s *Shell) dispatch(ctx context.Context, line string, out io.Writer) error {
	tokens := strings.Fields(line)
	command := strings.ToLower(tokens[0])
	args := tokens[1:]

	switch command {
	case "help":
		s.printHelp(out)
	case "info":
		s.printInfo(out)
	case "tutorial":
		s.printTutorial(out)
	case "quit":
		return errQuit
	case "create_user":
		fmt.Fprintln(out, "create_user: no-op (SQL user provisioning is a DBA task outside this tool)")
	case "reset_connection_string":
		if len(args) == 0 {
			fmt.Fprintln(out, "usage: reset_connection_string <connection-string>")
			return nil
		}
		s.cfg.SQLConfig.ConnString = args[0]
		fmt.Fprintln(out, "connection string updated for this session")
	case "create_tables":
		return s.withStore(out, func(store reverselookup.Store) error { return store.InitSchema(ctx) })
	case "create_indexes":
		return s.withStore(out, func(store reverselookup.Store) error { return store.CreateIndexes(ctx) })
	case "toggle_deployment_number":
		size := s.cfg.DeploymentNumberSize
		if size <= 0 {
			size = 1
		}
		s.cfg.DeploymentNumber = (s.cfg.DeploymentNumber + 1) % size
		fmt.Fprintf(out, "deployment number is now %d/%d\n", s.cfg.DeploymentNumber, size-1)
	case "toggle_noniata_indexing_flag":
		s.cfg.NonIATAIndexing = !s.cfg.NonIATAIndexing
		fmt.Fprintf(out, "non-IATA indexing is now %v\n", s.cfg.NonIATAIndexing)
	case "toggle_xapian_idexing_flag":
		s.cfg.XapianIndexing = !s.cfg.XapianIndexing
		fmt.Fprintf(out, "full-text indexing is now %v\n", s.cfg.XapianIndexing)
	case "toggle_sqldb_inserting_flag":
		s.cfg.SQLDBInserting = !s.cfg.SQLDBInserting
		fmt.Fprintf(out, "SQL DB inserting is now %v\n", s.cfg.SQLDBInserting)
	case "fill_from_por_file":
		return s.fillFromPORFile(ctx, out)
	case "list_by_iata":
		if s.store == nil {
			fmt.Fprintln(out, "no SQL backend configured (sqldbtype=nodb)")
			return nil
		}
		return s.listByCode(ctx, out, args, "IATA", s.store.ByIATA)
	case "list_by_icao":
		if s.store == nil {
			fmt.Fprintln(out, "no SQL backend configured (sqldbtype=nodb)")
			return nil
		}
		return s.listByCode(ctx, out, args, "ICAO", s.store.ByICAO)
	case "list_by_faa":
		if s.store == nil {
			fmt.Fprintln(out, "no SQL backend configured (sqldbtype=nodb)")
			return nil
		}
		return s.listByCode(ctx, out, args, "FAA", s.store.ByFAA)
	case "list_by_unlocode":
		if s.store == nil {
			fmt.Fprintln(out, "no SQL backend configured (sqldbtype=nodb)")
			return nil
		}
		return s.listByCode(ctx, out, args, "UN/LOCODE", s.store.ByUNLOCODE)
	case "list_by_uiccode":
		if s.store == nil {
			fmt.Fprintln(out, "no SQL backend configured (sqldbtype=nodb)")
			return nil
		}
		return s.listByNumericCode(ctx, out, args, "UIC code", s.store.ByUICCode)
	case "list_by_geonameid":
		if s.store == nil {
			fmt.Fprintln(out, "no SQL backend configured (sqldbtype=nodb)")
			return nil
		}
		return s.listByNumericCode(ctx, out, args, "Geonames id", s.store.ByGeonameID)
	case "list_nb":
		fmt.Fprintf(out, "%d documents indexed\n", s.idx.DocumentCount())
	case "list_all":
		s.listOffset = 0
		s.listPage(ctx, out)
	case "list_cont":
		s.listPage(ctx, out)
	default:
		fmt.Fprintf(out, "unknown command: %s (type 'help' for the command list)\n", command)
	}
	return nil
}

func (s *Shell) withStore(out io.Writer, fn func(reverselookup.Store) error) error {
	if s.store == nil {
		fmt.Fprintln(out, "no SQL backend configured (sqldbtype=nodb)")
		return nil
	}
	if err := fn(s.store); err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
	} else {
		fmt.Fprintln(out, "ok")
	}
	return nil
}

func (s *Shell) listByCode(ctx context.Context, out io.Writer, args []string, label string, lookup func(context.Context, string) (location.List, error)) error {
	if s.store == nil {
		fmt.Fprintln(out, "no SQL backend configured (sqldbtype=nodb)")
		return nil
	}
	if len(args) == 0 {
		fmt.Fprintf(out, "usage: list_by_%s <code>\n", strings.ToLower(label))
		return nil
	}
	list, err := lookup(ctx, args[0])
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return nil
	}
	printLocations(out, list)
	return nil
}

func (s *Shell) listByNumericCode(ctx context.Context, out io.Writer, args []string, label string, lookup func(context.Context, int64) (location.List, error)) error {
	if s.store == nil {
		fmt.Fprintln(out, "no SQL backend configured (sqldbtype=nodb)")
		return nil
	}
	if len(args) == 0 {
		fmt.Fprintf(out, "usage: list_by_%s <number>\n", strings.ReplaceAll(strings.ToLower(label), " ", ""))
		return nil
	}
	code, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(out, "%s must be numeric\n", label)
		return nil
	}
	list, err := lookup(ctx, code)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return nil
	}
	printLocations(out, list)
	return nil
}

func (s *Shell) listPage(ctx context.Context, out io.Writer) {
	total := s.idx.DocumentCount()
	if s.listOffset >= total {
		fmt.Fprintln(out, "no more documents; use list_all to restart from the beginning")
		return
	}
	end := s.listOffset + listPageSize
	if end > total {
		end = total
	}
	for i := s.listOffset; i < end; i++ {
		doc, err := s.idx.Document(ctx, index.DocumentID(i+1))
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", doc.Key.IATACode, doc.Language, doc.Record.CommonName)
	}
	s.listOffset = end
	fmt.Fprintf(out, "(%d/%d) type 'list_cont' for the next page\n", s.listOffset, total)
}

func (s *Shell) fillFromPORFile(ctx context.Context, out io.Writer) error {
	if s.cfg.PORFilePath == "" {
		fmt.Fprintln(out, "no porfile configured")
		return nil
	}
	reader, err := porfile.Open(s.cfg.PORFilePath)
	if err != nil {
		fmt.Fprintf(out, "error opening %s: %v\n", s.cfg.PORFilePath, err)
		return nil
	}
	defer reader.Close()

	count := 0
	for {
		line, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintf(out, "error reading line %d: %v\n", reader.LineNumber(), err)
			return nil
		}
		rec, err := porfile.ParseLine(line)
		if err != nil {
			fmt.Fprintf(out, "error parsing line %d: %v\n", reader.LineNumber(), err)
			continue
		}
		if !s.cfg.NonIATAIndexing && rec.Key.IATACode == "" {
			continue
		}
		if s.store != nil && s.cfg.SQLDBInserting {
			if inserter, ok := s.store.(interface {
				Insert(context.Context, *location.Record) error
			}); ok {
				if err := inserter.Insert(ctx, rec); err != nil {
					fmt.Fprintf(out, "error inserting %s: %v\n", rec.Key.IATACode, err)
				}
			}
		}
		count++
	}
	fmt.Fprintf(out, "read %d records from %s\n", count, s.cfg.PORFilePath)
	return nil
}

func printLocations(out io.Writer, list location.List) {
	if len(list) == 0 {
		fmt.Fprintln(out, "no matching records")
		return
	}
	for _, loc := range list {
		fmt.Fprintf(out, "%s\t%s\t%s\n", loc.Key.IATACode, loc.CommonName, loc.CountryCode)
	}
}

func (s *Shell) printHelp(out io.Writer) {
	fmt.Fprintln(out, "help\t\t\t\tdisplay this help")
	fmt.Fprintln(out, "info\t\t\t\tdisplay catalog/build information")
	fmt.Fprintln(out, "tutorial\t\t\tdisplay usage examples")
	fmt.Fprintln(out, "quit\t\t\t\texit the shell")
	fmt.Fprintln(out, "create_user\t\t\t(no-op) provision the SQL user")
	fmt.Fprintln(out, "reset_connection_string <str>\tchange the SQL connection string for this session")
	fmt.Fprintln(out, "create_tables\t\t\tcreate the place_details/place_names/airport_pageranked tables")
	fmt.Fprintln(out, "create_indexes\t\t\tcreate the lookup indexes over place_details")
	fmt.Fprintln(out, "toggle_deployment_number\tadvance the deployment number")
	fmt.Fprintln(out, "toggle_noniata_indexing_flag\ttoggle indexing of non-IATA-referenced POR")
	fmt.Fprintln(out, "toggle_xapian_idexing_flag\ttoggle full-text indexing")
	fmt.Fprintln(out, "toggle_sqldb_inserting_flag\ttoggle SQL insertion during fill_from_por_file")
	fmt.Fprintln(out, "fill_from_por_file\t\tload the configured POR file")
	fmt.Fprintln(out, "list_by_iata|icao|faa|unlocode|uiccode|geonameid <code>")
	fmt.Fprintln(out, "list_nb\t\t\t\tcount indexed documents")
	fmt.Fprintln(out, "list_all\t\t\t\tlist the first page of indexed documents")
	fmt.Fprintln(out, "list_cont\t\t\t\tlist the next page")
}

func (s *Shell) printInfo(out io.Writer) {
	fmt.Fprintf(out, "environment: %s\n", s.cfg.Environment)
	fmt.Fprintf(out, "porfile: %s\n", s.cfg.PORFilePath)
	fmt.Fprintf(out, "index path: %s\n", s.cfg.IndexPath)
	fmt.Fprintf(out, "sqldbtype: %s\n", s.cfg.SQLConfig.Type)
	fmt.Fprintf(out, "deploymentnb: %d/%d\n", s.cfg.DeploymentNumber, s.cfg.DeploymentNumberSize-1)
	fmt.Fprintf(out, "noniata: %v\n", s.cfg.NonIATAIndexing)
	fmt.Fprintf(out, "xapianindex: %v\n", s.cfg.XapianIndexing)
	fmt.Fprintf(out, "dbadd: %v\n", s.cfg.SQLDBInserting)
	fmt.Fprintf(out, "documents indexed: %d\n", s.idx.DocumentCount())
}

func (s *Shell) printTutorial(out io.Writer) {
	fmt.Fprintln(out, "examples:")
	fmt.Fprintln(out, "  list_by_iata SFO")
	fmt.Fprintln(out, "  list_by_geonameid 5391959")
	fmt.Fprintln(out, "  reset_connection_string /tmp/opentrep/sqlite_travel.db")
	fmt.Fprintln(out, "  create_tables")
	fmt.Fprintln(out, "  fill_from_por_file")
}
