// Package store persists rendered note blocks and the settings file.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a block has never been written.
	ErrNotFound = errors.New("block not found")
	// ErrStoreClosed is returned after Close.
	ErrStoreClosed = errors.New("store is closed")
)

// Kind tells what produced a block's content.
type Kind string

const (
	KindTemplate Kind = "template"
	KindWeather  Kind = "weather"
	KindLocation Kind = "location"
)

// Block is one version of a document block. Every write to a block ID adds a
// new version; the newest version is the block's current content.
type Block struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Documents stores block versions.
type Documents interface {
	Save(ctx context.Context, b Block) error
	Latest(ctx context.Context, id string) (Block, error)
	// History returns every retained version of a block, oldest first.
	History(ctx context.Context, id string) ([]Block, error)
	Close() error
}
