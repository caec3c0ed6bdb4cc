// Package store persists map rules and option toggles in SQLite.
//
// The tables mirror the two map queries of the dashboard: entities
// (target, title, style, predicate) and labels (label, target, level, style,
// predicate). Rows come back in insertion order.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/funvibe/gnos/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS entities (
	target    TEXT NOT NULL,
	title     TEXT NOT NULL,
	style     TEXT NOT NULL DEFAULT '',
	predicate TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS labels (
	label     TEXT NOT NULL,
	target    TEXT NOT NULL,
	level     INTEGER NOT NULL,
	style     TEXT NOT NULL DEFAULT '',
	predicate TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS options (
	name    TEXT PRIMARY KEY,
	enabled INTEGER NOT NULL
);
`

// Store is a SQLite rules database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. Use ":memory:" for a
// private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening rules db %s: %w", path, err)
	}
	// a single connection keeps ":memory:" databases alive and serialises writers
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating rules schema in %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRules replaces the stored rules with set in one transaction.
func (s *Store) SaveRules(ctx context.Context, set config.RuleSet) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM entities`); err != nil {
		return fmt.Errorf("clearing entities: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM labels`); err != nil {
		return fmt.Errorf("clearing labels: %w", err)
	}

	for i, e := range set.Entities {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO entities (target, title, style, predicate) VALUES (?, ?, ?, ?)`,
			e.Target, e.Title, e.Style, e.Predicate); err != nil {
			return fmt.Errorf("inserting entities[%d]: %w", i, err)
		}
	}
	for i, l := range set.Labels {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO labels (label, target, level, style, predicate) VALUES (?, ?, ?, ?, ?)`,
			l.Label, l.Target, l.Level, l.Style, l.Predicate); err != nil {
			return fmt.Errorf("inserting labels[%d]: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadRules returns the stored rules in insertion order.
func (s *Store) LoadRules(ctx context.Context) (config.RuleSet, error) {
	var set config.RuleSet

	rows, err := s.db.QueryContext(ctx,
		`SELECT target, title, style, predicate FROM entities ORDER BY rowid`)
	if err != nil {
		return set, fmt.Errorf("querying entities: %w", err)
	}
	for rows.Next() {
		var e config.Entity
		if err := rows.Scan(&e.Target, &e.Title, &e.Style, &e.Predicate); err != nil {
			rows.Close()
			return set, fmt.Errorf("scanning entity: %w", err)
		}
		set.Entities = append(set.Entities, e)
	}
	if err := rows.Close(); err != nil {
		return set, err
	}
	if err := rows.Err(); err != nil {
		return set, fmt.Errorf("reading entities: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT label, target, level, style, predicate FROM labels ORDER BY rowid`)
	if err != nil {
		return set, fmt.Errorf("querying labels: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l config.Label
		if err := rows.Scan(&l.Label, &l.Target, &l.Level, &l.Style, &l.Predicate); err != nil {
			return set, fmt.Errorf("scanning label: %w", err)
		}
		set.Labels = append(set.Labels, l)
	}
	if err := rows.Err(); err != nil {
		return set, fmt.Errorf("reading labels: %w", err)
	}
	return set, nil
}

// SaveOptions replaces the stored option toggles.
func (s *Store) SaveOptions(ctx context.Context, options map[string]bool) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM options`); err != nil {
		return fmt.Errorf("clearing options: %w", err)
	}
	for name, on := range options {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO options (name, enabled) VALUES (?, ?)`, name, on); err != nil {
			return fmt.Errorf("inserting option %s: %w", name, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadOptions returns the stored option toggles.
func (s *Store) LoadOptions(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, enabled FROM options`)
	if err != nil {
		return nil, fmt.Errorf("querying options: %w", err)
	}
	defer rows.Close()

	options := make(map[string]bool)
	for rows.Next() {
		var name string
		var on bool
		if err := rows.Scan(&name, &on); err != nil {
			return nil, fmt.Errorf("scanning option: %w", err)
		}
		options[name] = on
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading options: %w", err)
	}
	return options, nil
}
