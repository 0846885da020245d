// Package kv defines the string key-value storage port used to persist
// interaction history.
package kv

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrKeyNotFound is returned when a key does not exist.
	ErrKeyNotFound = errors.New("key not found")
	// ErrUnavailable is returned by stores whose backend cannot be used.
	ErrUnavailable = errors.New("storage unavailable")
)

// Entry represents a stored value with metadata.
type Entry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store defines persistence operations for string values keyed by name.
type Store interface {
	// Get returns an entry by key. Returns ErrKeyNotFound if not found.
	Get(ctx context.Context, key string) (Entry, error)
	// Set creates or replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes an entry by key. Returns ErrKeyNotFound if not found.
	Delete(ctx context.Context, key string) error
	// List returns all entries whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]Entry, error)
}

// Unavailable is a Store whose every operation fails with ErrUnavailable.
// It stands in when persistence is disabled.
type Unavailable struct{}

func (Unavailable) Get(context.Context, string) (Entry, error)    { return Entry{}, ErrUnavailable }
func (Unavailable) Set(context.Context, string, string) error     { return ErrUnavailable }
func (Unavailable) Delete(context.Context, string) error          { return ErrUnavailable }
func (Unavailable) List(context.Context, string) ([]Entry, error) { return nil, ErrUnavailable }
