package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists block versions to SQLite.
type SQLiteStore struct {
	db         *sql.DB
	mu         sync.RWMutex
	closed     bool
	maxHistory int
}

// NewSQLiteStore opens (or creates) the database at path. Use ":memory:" in
// tests. maxHistory <= 0 keeps every version.
func NewSQLiteStore(path string, maxHistory int) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// a :memory: database lives per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS blocks (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			kind TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_blocks_id ON blocks(id)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db, maxHistory: maxHistory}, nil
}

// Save implements Documents.
func (s *SQLiteStore) Save(ctx context.Context, b Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO blocks (id, kind, content, created_at) VALUES (?, ?, ?, ?)
	`, b.ID, string(b.Kind), b.Content, b.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("save block: %w", err)
	}

	if s.maxHistory > 0 {
		if _, err := s.db.ExecContext(ctx, `
			DELETE FROM blocks WHERE id = ? AND seq NOT IN (
				SELECT seq FROM blocks WHERE id = ? ORDER BY seq DESC LIMIT ?
			)
		`, b.ID, b.ID, s.maxHistory); err != nil {
			return fmt.Errorf("trim block history: %w", err)
		}
	}
	return nil
}

// Latest implements Documents.
func (s *SQLiteStore) Latest(ctx context.Context, id string) (Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Block{}, ErrStoreClosed
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, content, created_at FROM blocks
		WHERE id = ? ORDER BY seq DESC LIMIT 1
	`, id)
	b, err := scanBlock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Block{}, ErrNotFound
	}
	if err != nil {
		return Block{}, fmt.Errorf("load block: %w", err)
	}
	return b, nil
}

// History implements Documents.
func (s *SQLiteStore) History(ctx context.Context, id string) ([]Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, content, created_at FROM blocks
		WHERE id = ? ORDER BY seq
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	var blocks []Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}
	if len(blocks) == 0 {
		return nil, ErrNotFound
	}
	return blocks, nil
}

// Close implements Documents.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlock(sc scanner) (Block, error) {
	var (
		b         Block
		kind      string
		createdAt string
	)
	if err := sc.Scan(&b.ID, &kind, &b.Content, &createdAt); err != nil {
		return Block{}, err
	}
	b.Kind = Kind(kind)
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Block{}, fmt.Errorf("parse timestamp: %w", err)
	}
	b.CreatedAt = t
	return b, nil
}
