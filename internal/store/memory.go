package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a concurrency-safe in-memory implementation of Documents.
type MemoryStore struct {
	mu sync.RWMutex

	// key: block ID, value: versions oldest first
	data map[string][]Block

	// retention configuration
	maxHistory int           // max number of versions per block
	maxAge     time.Duration // optional max age for versions

	closed bool
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string][]Block),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Save appends a new version for a block and enforces retention.
func (s *MemoryStore) Save(ctx context.Context, b Block) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	versions := append(s.data[b.ID], b)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(versions) > s.maxHistory {
		versions = versions[len(versions)-s.maxHistory:]
	}

	// Enforce retention by age. The newest version always stays.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(versions)-1; i++ {
			if !versions[i].CreatedAt.Before(cutoff) {
				break
			}
		}
		versions = versions[i:]
	}

	s.data[b.ID] = versions
	return nil
}

// Latest returns the most recent version of a block.
func (s *MemoryStore) Latest(ctx context.Context, id string) (Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Block{}, ErrStoreClosed
	}
	versions := s.data[id]
	if len(versions) == 0 {
		return Block{}, ErrNotFound
	}
	return versions[len(versions)-1], nil
}

// History returns a copy of every retained version of a block.
func (s *MemoryStore) History(ctx context.Context, id string) ([]Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	versions := s.data[id]
	if len(versions) == 0 {
		return nil, ErrNotFound
	}
	out := make([]Block, len(versions))
	copy(out, versions)
	return out, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
