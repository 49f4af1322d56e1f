package dictionary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/kailas-cloud/wordguess/internal/domain"
)

// SQLSource stores word lists in SQLite.
type SQLSource struct {
	db *sqlx.DB
}

// NewSQLSource opens (or creates) the database at path and ensures the schema.
func NewSQLSource(path string) (*SQLSource, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite %s: %w", path, err)
	}
	// sqlite serializes writers; one connection avoids "database is locked" on import
	db.SetMaxOpenConns(1)

	s := &SQLSource{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLSource) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS word_lists (
			name TEXT PRIMARY KEY,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS words (
			list TEXT NOT NULL,
			position INTEGER NOT NULL,
			word TEXT NOT NULL,
			PRIMARY KEY (list, position),
			FOREIGN KEY (list) REFERENCES word_lists(name)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Load returns the named list's words, one per line, in import order.
func (s *SQLSource) Load(ctx context.Context, name string) ([]byte, error) {
	var exists int
	err := s.db.GetContext(ctx, &exists, `SELECT 1 FROM word_lists WHERE name = ?`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", domain.ErrDictionaryNotFound, name)
		}
		return nil, fmt.Errorf("lookup word list %q: %w", name, err)
	}

	var words []string
	if err := s.db.SelectContext(ctx, &words,
		`SELECT word FROM words WHERE list = ? ORDER BY position`, name); err != nil {
		return nil, fmt.Errorf("load word list %q: %w", name, err)
	}
	return []byte(strings.Join(words, "\n")), nil
}

// Names lists the stored word lists, sorted.
func (s *SQLSource) Names(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, `SELECT name FROM word_lists ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list word lists: %w", err)
	}
	return names, nil
}

// Import replaces the named list with the non-blank lines of text and returns
// how many words were stored.
func (s *SQLSource) Import(ctx context.Context, name, text string) (int, error) {
	if !validName(name) {
		return 0, fmt.Errorf("%w: invalid word list name %q", domain.ErrInvalidRequest, name)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM words WHERE list = ?`, name); err != nil {
		return 0, fmt.Errorf("clear word list %q: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO word_lists (name) VALUES (?)`, name); err != nil {
		return 0, fmt.Errorf("register word list %q: %w", name, err)
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO words (list, position, word) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, name, n, line); err != nil {
			return 0, fmt.Errorf("insert word %q: %w", line, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return n, nil
}

// HealthCheck pings the database.
func (s *SQLSource) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLSource) Close() error {
	return s.db.Close()
}
