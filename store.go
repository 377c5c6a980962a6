package reportgen

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// StoredTemplate is a named template record in the database tier of the
// registry.
type StoredTemplate struct {
	ID        string
	Title     string
	Document  []byte // structured template document, JSON
	CreatedAt time.Time
}

// TemplateStore supplies named template records by title. Implementations
// return (nil, nil) when no record exists; errors are reserved for
// lookup failures.
type TemplateStore interface {
	GetByTitle(ctx context.Context, title string) (*StoredTemplate, error)
}

const createTemplatesTable = `
CREATE TABLE IF NOT EXISTS report_templates (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL UNIQUE,
	document   TEXT NOT NULL,
	created_at TEXT NOT NULL
);`

// SQLiteTemplateStore persists named template documents in SQLite.
type SQLiteTemplateStore struct {
	db *sql.DB
}

var _ TemplateStore = (*SQLiteTemplateStore)(nil)

// OpenTemplateStore opens (creating if needed) the template database at
// path. Use ":memory:" for an ephemeral store.
func OpenTemplateStore(path string) (*SQLiteTemplateStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening template store: %w", err)
	}
	if _, err := db.Exec(createTemplatesTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing template store: %w", err)
	}
	return &SQLiteTemplateStore{db: db}, nil
}

// GetByTitle returns the record whose title matches exactly, or (nil, nil)
// when absent.
func (s *SQLiteTemplateStore) GetByTitle(ctx context.Context, title string) (*StoredTemplate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, document, created_at FROM report_templates WHERE title = ?`, title)

	var rec StoredTemplate
	var document, createdAt string
	if err := row.Scan(&rec.ID, &rec.Title, &document, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying template %q: %w", title, err)
	}

	rec.Document = []byte(document)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		rec.CreatedAt = t
	}
	return &rec, nil
}

// Put inserts or replaces the record for title and returns its ID. On
// replacement the existing row keeps its ID, which is what comes back.
func (s *SQLiteTemplateStore) Put(ctx context.Context, title string, document []byte) (string, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO report_templates (id, title, document, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(title) DO UPDATE SET document = excluded.document
		RETURNING id`,
		uuid.NewString(), title, string(document), time.Now().Format(time.RFC3339))

	var id string
	if err := row.Scan(&id); err != nil {
		return "", fmt.Errorf("storing template %q: %w", title, err)
	}
	return id, nil
}

// List returns the titles of all stored templates in sorted order.
func (s *SQLiteTemplateStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title FROM report_templates ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scanning template title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	return titles, nil
}

// Close releases the database handle.
func (s *SQLiteTemplateStore) Close() error {
	return s.db.Close()
}
