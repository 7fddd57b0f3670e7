package search

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
)

// Writer persists an index.
type Writer interface {
	// FileName is the name of the index file inside the output directory.
	FileName() string
	Write(ctx context.Context, path string, records []Record) error
}

// JSONWriter writes the records as one JSON array.
type JSONWriter struct{}

func (JSONWriter) FileName() string { return "search-index.json" }

func (JSONWriter) Write(_ context.Context, path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal search index: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	// #nosec G306 -- the index is a public site asset.
	return os.WriteFile(path, data, 0o644)
}

// SQLiteWriter writes the records into a fresh SQLite database with a single
// documents table.
type SQLiteWriter struct{}

func (SQLiteWriter) FileName() string { return "search-index.db" }

const sqliteSchema = `
CREATE TABLE documents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	url TEXT NOT NULL,
	anchor TEXT NOT NULL,
	title TEXT NOT NULL,
	breadcrumb TEXT NOT NULL,
	body TEXT NOT NULL
);
CREATE INDEX idx_documents_url ON documents(url);
`

func (SQLiteWriter) Write(ctx context.Context, path string, records []Record) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale search index: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO documents (url, anchor, title, breadcrumb, body) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.URL, r.ID, r.Title, r.Breadcrumb, r.Body); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert document: %w", err)
		}
	}
	return tx.Commit()
}

// Save writes the index with w into dir.
func Save(ctx context.Context, w Writer, dir string, x *Index) error {
	path := filepath.Join(dir, w.FileName())
	if err := w.Write(ctx, path, x.Records()); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write search index").
			WithContext("path", path).
			Build()
	}
	return nil
}
