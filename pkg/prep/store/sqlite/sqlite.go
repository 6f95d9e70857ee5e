// Package sqlite implements the dataset catalog on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/dataprep/pkg/prep/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite catalog with WAL mode enabled, creating the
// schema if needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	source TEXT,
	output_path TEXT,
	rows INTEGER NOT NULL,
	removed_by_id INTEGER DEFAULT 0,
	removed_by_text INTEGER DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS posts (
	run_id TEXT NOT NULL,
	key TEXT,
	label TEXT,
	date TEXT,
	text TEXT,
	hashtags TEXT,
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_posts_label ON posts(label);
CREATE INDEX IF NOT EXISTS idx_posts_run ON posts(run_id);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *sqliteStore) RecordRun(ctx context.Context, r store.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, kind, source, output_path, rows, removed_by_id, removed_by_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			source = excluded.source,
			output_path = excluded.output_path,
			rows = excluded.rows,
			removed_by_id = excluded.removed_by_id,
			removed_by_text = excluded.removed_by_text,
			created_at = excluded.created_at`,
		r.ID, r.Kind, r.Source, r.OutputPath, r.Rows,
		r.RemovedByID, r.RemovedByText, r.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, source, output_path, rows, removed_by_id, removed_by_text, created_at
		FROM runs WHERE id = ?`, id)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, fmt.Errorf("get run: %w", err)
	}
	return r, true, nil
}

func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, source, output_path, rows, removed_by_id, removed_by_text, created_at
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (store.Run, error) {
	var r store.Run
	var created string
	err := row.Scan(&r.ID, &r.Kind, &r.Source, &r.OutputPath,
		&r.Rows, &r.RemovedByID, &r.RemovedByText, &created)
	if err != nil {
		return store.Run{}, err
	}
	if t, perr := time.Parse(time.RFC3339, created); perr == nil {
		r.CreatedAt = t
	}
	return r, nil
}

func (s *sqliteStore) InsertPosts(ctx context.Context, posts []store.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert posts: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO posts (run_id, key, label, date, text, hashtags)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert posts: %w", err)
	}
	defer stmt.Close()

	for _, p := range posts {
		tags, err := json.Marshal(p.Hashtags)
		if err != nil {
			return fmt.Errorf("encode hashtags: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, p.RunID, p.Key, p.Label, p.Date, p.Text, string(tags)); err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
	}

	return tx.Commit()
}

func (s *sqliteStore) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func (s *sqliteStore) PostsByLabel(ctx context.Context, label string, limit int) ([]store.Post, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, key, label, date, text, hashtags
		FROM posts WHERE label = ? LIMIT ?`, label, limit)
	if err != nil {
		return nil, fmt.Errorf("posts by label: %w", err)
	}
	defer rows.Close()

	var posts []store.Post
	for rows.Next() {
		var p store.Post
		var tags string
		if err := rows.Scan(&p.RunID, &p.Key, &p.Label, &p.Date, &p.Text, &tags); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		if tags != "" {
			if err := json.Unmarshal([]byte(tags), &p.Hashtags); err != nil {
				return nil, fmt.Errorf("decode hashtags: %w", err)
			}
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
