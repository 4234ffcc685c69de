// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package knowledge persists research entries and session logs in SQLite.
package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/coreyalejandro/code-genie-deep-research-agent/pkg/types"
)

const defaultDBFile = "knowledge.db"

// storeTables lists the tables the store owns, in creation order.
var storeTables = []string{"knowledge", "research_sessions"}

// Store manages the knowledge base SQLite database. A single writer
// connection serializes access; concurrent ingestion processes never see
// interleaved partial inserts.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the knowledge base SQLite database at
// cfg.DBPath and creates the schema if it does not exist. Opening an
// existing database is idempotent.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = defaultDBFile
	}

	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, types.NewStorageError("creating database directory", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, types.NewStorageError("opening database", err)
	}

	// One connection: SQLite allows a single writer, and the in-memory
	// database exists per connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS knowledge (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			url TEXT,
			raw_text TEXT,
			summary TEXT,
			cluster_label INTEGER NOT NULL DEFAULT 0,
			depth INTEGER NOT NULL DEFAULT 1,
			session_id INTEGER REFERENCES research_sessions(id)
		)`,
		`CREATE TABLE IF NOT EXISTS research_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_name TEXT NOT NULL,
			query TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_knowledge_cluster ON knowledge(cluster_label)`,
		`CREATE INDEX IF NOT EXISTS idx_knowledge_session ON knowledge(session_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return types.NewStorageError("executing schema statement", err)
		}
	}

	return nil
}

// InsertEntry appends a knowledge row and returns its new identifier.
// Title must be non-empty; duplicate titles are permitted and stored as
// separate rows. A zero Depth defaults to 1. The insert is a single
// statement, so a failure leaves no partial row.
func (s *Store) InsertEntry(ctx context.Context, e types.Entry) (int64, error) {
	if strings.TrimSpace(e.Title) == "" {
		return 0, types.NewValidationError("title", "must not be empty")
	}

	depth := e.Depth
	if depth == 0 {
		depth = 1
	}

	var sessionID any
	if e.SessionID != 0 {
		sessionID = e.SessionID
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO knowledge (title, url, raw_text, summary, cluster_label, depth, session_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Title, e.URL, e.RawText, e.Summary, e.ClusterLabel, depth, sessionID,
	)
	if err != nil {
		return 0, types.NewStorageError("insert entry", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, types.NewStorageError("insert entry id", err)
	}
	return id, nil
}

// InsertSession records one research invocation. Both arguments must be
// non-empty. CreatedAt is set at call time and never mutated afterwards.
func (s *Store) InsertSession(ctx context.Context, sessionName, query string) (int64, error) {
	if strings.TrimSpace(sessionName) == "" {
		return 0, types.NewValidationError("session_name", "must not be empty")
	}
	if strings.TrimSpace(query) == "" {
		return 0, types.NewValidationError("query", "must not be empty")
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO research_sessions (session_name, query, created_at) VALUES (?, ?, ?)`,
		sessionName, query, createdAt,
	)
	if err != nil {
		return 0, types.NewStorageError("insert session", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, types.NewStorageError("insert session id", err)
	}
	return id, nil
}

// Filter narrows ListEntries. The zero value matches everything.
type Filter struct {
	// Cluster restricts results to one cluster label when non-nil.
	// Zero is a real label (ungrouped), hence the pointer.
	Cluster *int

	// MinDepth and MaxDepth bound the depth range. Zero means unbounded.
	MinDepth int
	MaxDepth int

	// SessionID restricts results to one session when non-zero.
	SessionID int64

	// Contains is a case-insensitive substring match against the summary.
	Contains string

	// Limit caps the result count. Zero means no limit.
	Limit int
}

// ListEntries returns knowledge rows in insertion order (id ascending).
// A filter narrows the result set; relative order among matches is
// preserved.
func (s *Store) ListEntries(ctx context.Context, f Filter) ([]types.Entry, error) {
	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(
		`SELECT id, title, url, raw_text, summary, cluster_label, depth, session_id
		 FROM knowledge WHERE 1=1`)

	if f.Cluster != nil {
		qb.WriteString(` AND cluster_label = ?`)
		args = append(args, *f.Cluster)
	}
	if f.MinDepth > 0 {
		qb.WriteString(` AND depth >= ?`)
		args = append(args, f.MinDepth)
	}
	if f.MaxDepth > 0 {
		qb.WriteString(` AND depth <= ?`)
		args = append(args, f.MaxDepth)
	}
	if f.SessionID != 0 {
		qb.WriteString(` AND session_id = ?`)
		args = append(args, f.SessionID)
	}
	if f.Contains != "" {
		qb.WriteString(` AND summary LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(f.Contains)+"%")
	}

	qb.WriteString(` ORDER BY id ASC`)

	if f.Limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, types.NewStorageError("query entries", err)
	}
	defer rows.Close()

	var entries []types.Entry
	for rows.Next() {
		var (
			e         types.Entry
			url       sql.NullString
			rawText   sql.NullString
			summary   sql.NullString
			sessionID sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.Title, &url, &rawText, &summary, &e.ClusterLabel, &e.Depth, &sessionID); err != nil {
			return nil, types.NewStorageError("scanning entry", err)
		}
		e.URL = url.String
		e.RawText = rawText.String
		e.Summary = summary.String
		e.SessionID = sessionID.Int64
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewStorageError("reading entries", err)
	}

	return entries, nil
}

// ListSessions returns session rows in insertion order (id ascending).
func (s *Store) ListSessions(ctx context.Context) ([]types.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_name, query, created_at FROM research_sessions ORDER BY id ASC`)
	if err != nil {
		return nil, types.NewStorageError("query sessions", err)
	}
	defer rows.Close()

	var sessions []types.Session
	for rows.Next() {
		var (
			sess      types.Session
			createdAt string
		)
		if err := rows.Scan(&sess.ID, &sess.SessionName, &sess.Query, &createdAt); err != nil {
			return nil, types.NewStorageError("scanning session", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
			sess.CreatedAt = t
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewStorageError("reading sessions", err)
	}

	return sessions, nil
}

// Reset drops and recreates both tables. It is destructive and
// unconditional; confirmation belongs to the CLI boundary, not here.
func (s *Store) Reset(ctx context.Context) error {
	// knowledge references research_sessions, so it drops first.
	for _, table := range storeTables {
		if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS `+table); err != nil {
			return types.NewStorageError("dropping table "+table, err)
		}
	}
	return s.createSchema()
}

// Schema returns the table and column definitions as descriptive text.
// Read-only; no side effects.
func (s *Store) Schema(ctx context.Context) (string, error) {
	var b strings.Builder

	for _, table := range storeTables {
		fmt.Fprintf(&b, "Table: %s\n", table)

		rows, err := s.db.QueryContext(ctx, `SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?)`, table)
		if err != nil {
			return "", types.NewStorageError("reading table info", err)
		}

		for rows.Next() {
			var (
				name, colType string
				notNull, pk   int
				dflt          sql.NullString
			)
			if err := rows.Scan(&name, &colType, &notNull, &dflt, &pk); err != nil {
				rows.Close()
				return "", types.NewStorageError("scanning table info", err)
			}

			fmt.Fprintf(&b, "  - %s: %s", name, colType)
			if pk != 0 {
				b.WriteString(" (PK)")
			}
			if notNull != 0 {
				b.WriteString(" NOT NULL")
			}
			if dflt.Valid {
				fmt.Fprintf(&b, " DEFAULT %s", dflt.String)
			}
			b.WriteString("\n")
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return "", types.NewStorageError("reading table info", err)
		}
		rows.Close()
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

// escapeLike escapes LIKE metacharacters so Contains matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
