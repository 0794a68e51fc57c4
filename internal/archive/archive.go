// Package archive stores generated brochures in a local SQLite database.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"website-assistant/internal/models"
)

var ErrNotFound = errors.New("brochure not found")

// timeLayout has fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type DB struct {
	db   *sql.DB
	path string
}

// Open creates the database file and its directory when missing.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	// One writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	a := &DB{db: db, path: path}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := a.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return a, nil
}

func (a *DB) Path() string { return a.path }

func (a *DB) Close() error { return a.db.Close() }

func (a *DB) createTables() error {
	_, err := a.db.Exec(`
	CREATE TABLE IF NOT EXISTS brochures (
		id TEXT PRIMARY KEY,
		company TEXT NOT NULL,
		url TEXT NOT NULL,
		markdown TEXT NOT NULL,
		model TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_brochures_url ON brochures(url);
	CREATE INDEX IF NOT EXISTS idx_brochures_created ON brochures(created_at);
	`)
	return err
}

// SaveBrochure inserts b, replacing a brochure with the same ID.
func (a *DB) SaveBrochure(ctx context.Context, b models.Brochure) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	_, err := a.db.ExecContext(ctx, `
	INSERT OR REPLACE INTO brochures (id, company, url, markdown, model, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.Company, b.URL, b.Markdown, b.Model, b.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save brochure %s: %w", b.ID, err)
	}
	return nil
}

func (a *DB) GetBrochure(ctx context.Context, id string) (*models.Brochure, error) {
	row := a.db.QueryRowContext(ctx, `
	SELECT id, company, url, markdown, model, created_at FROM brochures WHERE id = ?`, id)
	b, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b, err
}

// ListBrochures returns the newest brochures first. limit <= 0 means all.
func (a *DB) ListBrochures(ctx context.Context, limit int) ([]models.Brochure, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := a.db.QueryContext(ctx, `
	SELECT id, company, url, markdown, model, created_at FROM brochures
	ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list brochures: %w", err)
	}
	defer rows.Close()

	var out []models.Brochure
	for rows.Next() {
		b, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Brochure, error) {
	var (
		b       models.Brochure
		model   sql.NullString
		created string
	)
	if err := s.Scan(&b.ID, &b.Company, &b.URL, &b.Markdown, &model, &created); err != nil {
		return nil, err
	}
	b.Model = model.String
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	b.CreatedAt = t
	return &b, nil
}
