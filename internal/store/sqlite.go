// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"fromthedepths/internal/index"
	"fromthedepths/internal/post"
)

// SQLite keeps the latest snapshot in a SQLite database with a full-text
// search table over the plain-text bodies.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path, ensures its directory
// exists, and creates the schema.
func NewSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	s := &SQLite{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    filename TEXT NOT NULL,
    date_published TEXT NOT NULL,
    title TEXT NOT NULL,
    subtitle TEXT NOT NULL,
    description TEXT NOT NULL,
    default_image TEXT NOT NULL,
    keywords TEXT NOT NULL,
    tags TEXT NOT NULL,
    content TEXT NOT NULL,
    preview TEXT NOT NULL,
    preview_html TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tags (
    tag TEXT PRIMARY KEY,
    count INTEGER NOT NULL,
    rank INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS pages (
    page INTEGER NOT NULL,
    position INTEGER NOT NULL,
    slug TEXT NOT NULL,
    PRIMARY KEY (page, position)
);
CREATE TABLE IF NOT EXISTS slugs (
    slug TEXT PRIMARY KEY,
    stem TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
CREATE VIRTUAL TABLE IF NOT EXISTS search USING fts5(
    slug UNINDEXED,
    date_published UNINDEXED,
    tags UNINDEXED,
    title,
    description,
    body
);
`)
	return err
}

// Save replaces the stored snapshot in a single transaction.
func (s *SQLite) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"posts", "tags", "pages", "slugs", "meta", "search"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, p := range snap.Posts {
		keywords, err := json.Marshal(nonNil(p.Keywords))
		if err != nil {
			return err
		}
		tags, err := json.Marshal(nonNil(p.Tags))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO posts
			(slug, position, filename, date_published, title, subtitle, description, default_image, keywords, tags, content, preview, preview_html)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Slug, i, p.Filename, p.DatePublished, p.Title, p.Subtitle, p.Description, p.DefaultImage,
			string(keywords), string(tags), p.Content, p.Preview, p.PreviewHTML,
		); err != nil {
			return fmt.Errorf("failed to store post %s: %w", p.Slug, err)
		}
	}

	for rank, tc := range snap.Tags.Sorted {
		if _, err := tx.ExecContext(ctx, `INSERT INTO tags (tag, count, rank) VALUES (?, ?, ?)`, tc.Tag, tc.Count, rank); err != nil {
			return fmt.Errorf("failed to store tag %s: %w", tc.Tag, err)
		}
	}

	for i, page := range snap.Pages.Pages {
		for pos, p := range page {
			if _, err := tx.ExecContext(ctx, `INSERT INTO pages (page, position, slug) VALUES (?, ?, ?)`, i+1, pos, p.Slug); err != nil {
				return fmt.Errorf("failed to store page %d: %w", i+1, err)
			}
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES ('postsPerPage', ?), ('totalPages', ?)`,
		fmt.Sprint(snap.Pages.PostsPerPage), fmt.Sprint(snap.Pages.TotalPages)); err != nil {
		return err
	}

	for slug, stem := range snap.Slugs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO slugs (slug, stem) VALUES (?, ?)`, slug, stem); err != nil {
			return fmt.Errorf("failed to store slug %s: %w", slug, err)
		}
	}

	for _, d := range snap.Search {
		tags, err := json.Marshal(nonNil(d.Tags))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO search (slug, date_published, tags, title, description, body) VALUES (?, ?, ?, ?, ?, ?)`,
			d.Slug, d.DatePublished, string(tags), d.Title, d.Description, d.Body); err != nil {
			return fmt.Errorf("failed to index %s: %w", d.Slug, err)
		}
	}

	return tx.Commit()
}

// Search runs a full-text query and returns the best matches first. Each
// word of query must appear; FTS operators in the input are treated as text.
func (s *SQLite) Search(ctx context.Context, query string, limit int) ([]index.SearchDoc, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT slug, date_published, tags, title, description, body
		FROM search WHERE search MATCH ? ORDER BY rank LIMIT ?`, match, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []index.SearchDoc
	for rows.Next() {
		var d index.SearchDoc
		var tags string
		if err := rows.Scan(&d.Slug, &d.DatePublished, &tags, &d.Title, &d.Description, &d.Body); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tags), &d.Tags); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Post returns the stored post for slug, or ErrNotFound.
func (s *SQLite) Post(ctx context.Context, slug string) (post.Post, error) {
	var p post.Post
	var keywords, tags string
	err := s.db.QueryRowContext(ctx, `SELECT slug, filename, date_published, title, subtitle, description, default_image,
		keywords, tags, content, preview, preview_html FROM posts WHERE slug = ?`, slug).
		Scan(&p.Slug, &p.Filename, &p.DatePublished, &p.Title, &p.Subtitle, &p.Description, &p.DefaultImage,
			&keywords, &tags, &p.Content, &p.Preview, &p.PreviewHTML)
	if errors.Is(err, sql.ErrNoRows) {
		return post.Post{}, fmt.Errorf("post %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return post.Post{}, err
	}
	if err := json.Unmarshal([]byte(keywords), &p.Keywords); err != nil {
		return post.Post{}, err
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return post.Post{}, err
	}
	if t, err := time.Parse(post.DateLayout, p.DatePublished); err == nil {
		p.PublishedAt = t
	}
	return p, nil
}

// PageSlugs returns the slugs on 1-based page n in order.
func (s *SQLite) PageSlugs(ctx context.Context, n int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slug FROM pages WHERE page = ? ORDER BY position`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

// ftsQuery quotes every word so user input cannot inject FTS syntax.
func ftsQuery(q string) string {
	var terms []string
	for _, w := range strings.Fields(q) {
		terms = append(terms, `"`+strings.ReplaceAll(w, `"`, `""`)+`"`)
	}
	return strings.Join(terms, " ")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
