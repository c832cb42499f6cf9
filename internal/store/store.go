// Package store writes a completed analysis session to SQLite. The
// database is an export artifact for downstream tooling; the engine
// itself never reads from it.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jward/grove/internal/graph"
)

// Store is the SQLite sink for one exported session.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the export tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS modules (
  id          INTEGER PRIMARY KEY,
  name        TEXT NOT NULL,
  full_name   TEXT NOT NULL,
  language    TEXT NOT NULL,
  kind        TEXT,
  file_path   TEXT,
  line_number INTEGER,
  address     TEXT,
  is_library  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS functions (
  id                 INTEGER PRIMARY KEY,
  name               TEXT NOT NULL,
  full_name          TEXT NOT NULL UNIQUE,
  language           TEXT NOT NULL,
  visibility         TEXT,
  return_type        TEXT,
  modifiers          TEXT,
  parameters         TEXT,
  calls              TEXT,
  features           TEXT,
  line_number        INTEGER,
  start_line         INTEGER,
  end_line           INTEGER,
  file_path          TEXT,
  relative_file_path TEXT,
  content_hash       TEXT
);

CREATE TABLE IF NOT EXISTS structs (
  id          INTEGER PRIMARY KEY,
  name        TEXT NOT NULL,
  full_name   TEXT NOT NULL,
  language    TEXT NOT NULL,
  fields      TEXT,
  abilities   TEXT,
  line_number INTEGER
);

CREATE TABLE IF NOT EXISTS call_edges (
  id        INTEGER PRIMARY KEY,
  caller    TEXT NOT NULL,
  callee    TEXT NOT NULL,
  call_type TEXT NOT NULL,
  language  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS language_stats (
  language  TEXT PRIMARY KEY,
  modules   INTEGER NOT NULL,
  functions INTEGER NOT NULL,
  structs   INTEGER NOT NULL,
  edges     INTEGER NOT NULL,
  isolated  INTEGER NOT NULL,
  features  TEXT
);

CREATE TABLE IF NOT EXISTS rankings (
  id        INTEGER PRIMARY KEY,
  kind      TEXT NOT NULL,
  position  INTEGER NOT NULL,
  name      TEXT NOT NULL,
  count     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_functions_language ON functions(language);
CREATE INDEX IF NOT EXISTS idx_call_edges_caller ON call_edges(caller);
CREATE INDEX IF NOT EXISTS idx_call_edges_callee ON call_edges(callee);
`

// InsertModules writes module records inside one transaction.
func (s *Store) InsertModules(modules []*graph.ModuleInfo) error {
	return s.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO modules
			(name, full_name, language, kind, file_path, line_number, address, is_library)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, m := range modules {
			if _, err := stmt.Exec(m.Name, m.FullName, m.Language, m.Kind,
				m.FilePath, m.LineNumber, m.Address, boolInt(m.IsLibrary)); err != nil {
				return fmt.Errorf("insert module %s: %w", m.FullName, err)
			}
		}
		return nil
	})
}

// InsertFunctions writes function records inside one transaction. List
// fields are stored as JSON arrays; features is the derived flag list.
func (s *Store) InsertFunctions(functions []*graph.FunctionInfo, features func(*graph.FunctionInfo) []string) error {
	return s.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO functions
			(name, full_name, language, visibility, return_type, modifiers, parameters,
			 calls, features, line_number, start_line, end_line,
			 file_path, relative_file_path, content_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, fn := range functions {
			var flagList []string
			if features != nil {
				flagList = features(fn)
			}
			if _, err := stmt.Exec(fn.Name, fn.FullName, fn.Language, fn.Visibility, fn.ReturnType,
				marshalList(fn.Modifiers), marshalList(fn.Parameters),
				marshalList(fn.Calls), marshalList(flagList),
				fn.LineNumber, fn.StartLine, fn.EndLine,
				fn.FilePath, fn.RelativeFilePath, fn.ContentHash); err != nil {
				return fmt.Errorf("insert function %s: %w", fn.FullName, err)
			}
		}
		return nil
	})
}

// InsertStructs writes struct records inside one transaction.
func (s *Store) InsertStructs(structs []*graph.StructInfo) error {
	return s.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO structs
			(name, full_name, language, fields, abilities, line_number)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, st := range structs {
			if _, err := stmt.Exec(st.Name, st.FullName, st.Language,
				marshalList(st.Fields), marshalList(st.Abilities), st.LineNumber); err != nil {
				return fmt.Errorf("insert struct %s: %w", st.FullName, err)
			}
		}
		return nil
	})
}

// InsertEdges writes call graph edges inside one transaction.
func (s *Store) InsertEdges(edges []graph.CallGraphEdge) error {
	return s.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO call_edges (caller, callee, call_type, language)
			VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, e := range edges {
			if _, err := stmt.Exec(e.Caller, e.Callee, string(e.CallType), e.Language); err != nil {
				return fmt.Errorf("insert edge %s -> %s: %w", e.Caller, e.Callee, err)
			}
		}
		return nil
	})
}

// InsertStats writes per-language aggregates inside one transaction.
func (s *Store) InsertStats(stats []graph.LanguageStats) error {
	return s.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT OR REPLACE INTO language_stats
			(language, modules, functions, structs, edges, isolated, features)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, st := range stats {
			features, err := json.Marshal(st.Features)
			if err != nil {
				return fmt.Errorf("marshal features for %s: %w", st.Language, err)
			}
			if _, err := stmt.Exec(st.Language, st.Modules, st.Functions,
				st.Structs, st.Edges, len(st.Isolated), string(features)); err != nil {
				return fmt.Errorf("insert stats %s: %w", st.Language, err)
			}
		}
		return nil
	})
}

// RankingEntry is one row of a top-N ranking.
type RankingEntry struct {
	Name  string
	Count int
}

// InsertRankings writes one ranking kind ("most_called", "most_calling")
// with stable 1-based positions.
func (s *Store) InsertRankings(kind string, entries []RankingEntry) error {
	return s.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO rankings (kind, position, name, count)
			VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, e := range entries {
			if _, err := stmt.Exec(kind, i+1, e.Name, e.Count); err != nil {
				return fmt.Errorf("insert ranking %s[%d]: %w", kind, i, err)
			}
		}
		return nil
	})
}

func (s *Store) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// marshalList stores a string slice as a JSON array, "[]" when empty.
func marshalList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// UnmarshalList is the inverse of the list encoding, for readers of the
// exported database.
func UnmarshalList(s string) []string {
	if s == "" || s == "[]" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil
	}
	return items
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
