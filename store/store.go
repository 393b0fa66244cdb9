package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"agencypulse/table"
)

const tableName = "main_data"

// Store wraps the SQLite database holding the reconciled dataset.
// ReplaceAll serializes concurrent runs so only one rewrite is in
// flight at a time.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	// A single writer avoids SQLITE_BUSY on the replace transaction.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaDDL()); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func schemaDDL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS " + tableName + " (\n")
	b.WriteString("\tid INTEGER PRIMARY KEY AUTOINCREMENT")
	for _, f := range fields {
		b.WriteString(",\n\t" + f.column + " ")
		switch f.kind {
		case intField:
			b.WriteString("INTEGER NOT NULL DEFAULT 0")
		case realField:
			b.WriteString("REAL NOT NULL DEFAULT 0")
		default:
			b.WriteString("TEXT NOT NULL DEFAULT ''")
		}
	}
	b.WriteString("\n)")
	return b.String()
}

func insertSQL() string {
	cols := make([]string, len(fields))
	marks := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.column
		marks[i] = "?"
	}
	return "INSERT INTO " + tableName + " (" + strings.Join(cols, ", ") +
		") VALUES (" + strings.Join(marks, ", ") + ")"
}

// ReplaceAll swaps the whole dataset for the given table in one
// transaction. On any failure the previous dataset is left untouched.
func (s *Store) ReplaceAll(ctx context.Context, t table.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := RecordsFrom(t)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning replace transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+tableName); err != nil {
		return fmt.Errorf("clearing previous dataset: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL())
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		if _, err := stmt.ExecContext(ctx, records[i].values()...); err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing replace transaction: %w", err)
	}
	return nil
}

// All returns every record in insertion order.
func (s *Store) All(ctx context.Context) ([]Record, error) {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.column
	}
	query := "SELECT id, " + strings.Join(cols, ", ") + " FROM " + tableName + " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		dest := append([]any{&r.ID}, r.pointers()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+tableName).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}
