package data

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/kerbaras/vnforge/pkg/novel"
	_ "github.com/marcboeker/go-duckdb/v2"
)

const schema = `
CREATE TABLE IF NOT EXISTS novels (
	id VARCHAR PRIMARY KEY,
	title VARCHAR NOT NULL,
	start_scene_id VARCHAR NOT NULL,
	scene_count INTEGER NOT NULL,
	document VARCHAR NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// InitDuckDB opens the database at path, creating parent directories and the
// schema when missing.
func InitDuckDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create library directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}

type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func NewDuckDBRepository(path string) (*Repository, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db, now: time.Now}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveNovel upserts a novel. An empty id stores it under a fresh one, which is
// returned.
func (r *Repository) SaveNovel(id string, n novel.Novel) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	doc, err := novel.Marshal(n)
	if err != nil {
		return "", err
	}

	_, err = r.db.Exec(`
		INSERT INTO novels (id, title, start_scene_id, scene_count, document, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			start_scene_id = excluded.start_scene_id,
			scene_count = excluded.scene_count,
			document = excluded.document,
			updated_at = excluded.updated_at`,
		id, n.Title, n.StartSceneID, len(n.Scenes), string(doc), r.now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to save novel: %w", err)
	}
	return id, nil
}

// GetNovel returns nil when no novel has the id.
func (r *Repository) GetNovel(id string) (*Entry, error) {
	row := r.db.QueryRow(`
		SELECT id, title, start_scene_id, scene_count, document, updated_at
		FROM novels WHERE id = ?`, id)
	return scanEntry(row)
}

// FindNovelByTitle returns the most recently updated novel with the title,
// compared case-insensitively, or nil.
func (r *Repository) FindNovelByTitle(title string) (*Entry, error) {
	row := r.db.QueryRow(`
		SELECT id, title, start_scene_id, scene_count, document, updated_at
		FROM novels WHERE lower(title) = lower(?)
		ORDER BY updated_at DESC LIMIT 1`, title)
	return scanEntry(row)
}

func (r *Repository) ListNovels() ([]Summary, error) {
	rows, err := r.db.Query(`
		SELECT id, title, start_scene_id, scene_count, updated_at
		FROM novels ORDER BY updated_at DESC, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.StartSceneID, &s.SceneCount, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteNovel reports whether a row was removed.
func (r *Repository) DeleteNovel(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM novels WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanEntry(row *sql.Row) (*Entry, error) {
	var e Entry
	var doc string
	err := row.Scan(&e.ID, &e.Title, &e.StartSceneID, &e.SceneCount, &doc, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	e.Novel, err = novel.Parse([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("library entry %s: %w", e.ID, err)
	}
	return &e, nil
}
