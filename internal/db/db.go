// Package db implements a SQLite-backed task store.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql

	"github.com/go-ports/tasks/internal/models"
	"github.com/go-ports/tasks/internal/store"
)

// Backend stores the snapshot in a single SQLite database file. Each Load and
// Save opens its own connection; nothing is held between operations.
type Backend struct {
	path string
}

var _ store.Backend = (*Backend)(nil)

// NewBackend returns a backend for the database file at path.
func NewBackend(path string) *Backend {
	return &Backend{path: path}
}

// Path returns the database file path.
func (b *Backend) Path() string { return b.path }

// dsn builds a file: URI for path so characters such as '?' and '#' in the
// directory name are escaped instead of being read as URI delimiters.
func dsn(path, query string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path), RawQuery: query}
	return u.String()
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

const schema = `CREATE TABLE tasks (
	id         INTEGER PRIMARY KEY,
	text       TEXT NOT NULL,
	done       INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT '',
	position   INTEGER NOT NULL
)`

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

// Load reads the snapshot in insertion order. The database is opened
// read-only so a missing file is never created.
func (b *Backend) Load(ctx context.Context) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(b.path); errors.Is(err, os.ErrNotExist) {
		return []models.Task{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("db.Load: %w", err)
	}

	sqldb, err := sql.Open("sqlite3", dsn(b.path, "mode=ro"))
	if err != nil {
		return nil, fmt.Errorf("db.Load: %w", err)
	}
	defer sqldb.Close()

	tasks, err := readTasks(ctx, sqldb)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return []models.Task{}, &store.MalformedError{Path: b.path, Err: err}
	}
	return tasks, nil
}

func readTasks(ctx context.Context, sqldb *sql.DB) ([]models.Task, error) {
	rows, err := sqldb.QueryContext(ctx,
		`SELECT id, text, done, created_at FROM tasks ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Text, &t.Done, &t.CreatedAt); err != nil {
			return nil, err
		}
		if t.ID < 1 {
			return nil, fmt.Errorf("task id %d is not positive", t.ID)
		}
		if strings.TrimSpace(t.Text) == "" {
			return nil, fmt.Errorf("task %d has empty text", t.ID)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := store.CheckUnique(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ---------------------------------------------------------------------------
// Save
// ---------------------------------------------------------------------------

// Save builds the new database in a temp file next to the target and renames
// it into place once the transaction has committed, so a failed save leaves
// the previous database untouched.
func (b *Backend) Save(ctx context.Context, tasks []models.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("db.Save: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("db.Save: %w", err)
	}
	tmpName := tmp.Name()
	_ = tmp.Close()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
			_ = os.Remove(tmpName + "-journal")
		}
	}()

	if err := writeDatabase(ctx, tmpName, tasks); err != nil {
		return fmt.Errorf("db.Save: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("db.Save: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("db.Save: %w", err)
	}
	committed = true
	return nil
}

func writeDatabase(ctx context.Context, path string, tasks []models.Task) (err error) {
	sqldb, err := sql.Open("sqlite3", dsn(path, "_synchronous=FULL"))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sqldb.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err := sqldb.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := sqldb.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tasks (id, text, done, created_at, position) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range tasks {
		if _, err := stmt.ExecContext(ctx, t.ID, t.Text, t.Done, t.CreatedAt, i); err != nil {
			return fmt.Errorf("insert task %d: %w", t.ID, err)
		}
	}
	return tx.Commit()
}
