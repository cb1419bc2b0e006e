// Package cache stores parsed sections in a local SQLite database so a file
// whose content has not changed is not parsed again. The cache is purely an
// optimization: parse semantics never depend on it, and a miss or a schema
// change just means re-parsing.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"sidedoc/internal/parser"
)

type Store struct {
	db *sql.DB
}

// NewStore creates or opens a section cache database.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sections (
		path TEXT PRIMARY KEY,
		language TEXT,
		content_hash TEXT,
		payload JSON
	);`)
	return err
}

// Key identifies one parse result.
func Key(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached sections for a file, or ok=false when the entry is
// missing, was parsed under another language, or the content has changed.
func (s *Store) Get(ctx context.Context, path, lang, key string) ([]*parser.Section, bool, error) {
	var gotLang, gotKey string
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT language, content_hash, payload FROM sections WHERE path = ?`, path,
	).Scan(&gotLang, &gotKey, &payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if gotLang != lang || gotKey != key {
		return nil, false, nil
	}

	var sections []*parser.Section
	if err := json.Unmarshal(payload, &sections); err != nil {
		// Stale payload shape from an older build; treat as a miss.
		return nil, false, nil
	}
	return sections, true, nil
}

// Put records the sections parsed for a file, replacing any previous entry.
func (s *Store) Put(ctx context.Context, path, lang, key string, sections []*parser.Section) error {
	payload, err := json.Marshal(sections)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sections (path, language, content_hash, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			language=excluded.language,
			content_hash=excluded.content_hash,
			payload=excluded.payload
	`, path, lang, key, payload)
	return err
}
