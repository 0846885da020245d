// Package jsonfile persists the interaction history to a single JSON document
// on disk. It implements kv.Store but only accepts keys in the history
// namespace, so the file never holds anything the history store or
// `neighborly doctor` does not understand.
package jsonfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/goccy/go-json"

	"github.com/hay-kot/neighborly/internal/core/history"
	"github.com/hay-kot/neighborly/internal/core/kv"
)

// FormatVersion is written to every document. Files with a newer version are
// refused rather than rewritten.
const FormatVersion = 1

// ErrOutsideNamespace is returned by Set for keys without the history prefix.
var ErrOutsideNamespace = errors.New("key outside the history namespace")

// Document is the on-disk layout.
type Document struct {
	Version int               `json:"version"`
	Records map[string]Record `json:"records"`
}

// Record is one stored value. Values that are a JSON array or object (every
// well-formed history log) are kept inline under "log" so the file stays
// readable; anything else is kept verbatim under "raw".
type Record struct {
	Log       json.RawMessage `json:"log,omitempty"`
	Raw       *string         `json:"raw,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func newRecord(value string, now time.Time) Record {
	rec := Record{CreatedAt: now, UpdatedAt: now}
	rec.setValue(value)
	return rec
}

func (r *Record) setValue(value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed != "" && (trimmed[0] == '[' || trimmed[0] == '{') && json.Valid([]byte(trimmed)) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, []byte(trimmed)); err == nil {
			r.Log, r.Raw = buf.Bytes(), nil
			return
		}
	}
	r.Log, r.Raw = nil, &value
}

func (r Record) value() string {
	if r.Raw != nil {
		return *r.Raw
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, r.Log); err != nil {
		return string(r.Log)
	}
	return buf.String()
}

func (r Record) entry(key string) kv.Entry {
	return kv.Entry{Key: key, Value: r.value(), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

// Store is a kv.Store backed by a history file. Logs are stored compacted, so
// Get returns JSON values without insignificant whitespace.
type Store struct {
	path      string
	namespace string
	now       func() time.Time
	mu        sync.RWMutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a store for the history file at path. The file and its
// directory are created on first write.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:      path,
		namespace: history.KeyPrefix,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the location of the history file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(_ context.Context, key string) (kv.Entry, error) {
	var (
		rec   Record
		found bool
	)
	err := s.view(func(doc *Document) error {
		rec, found = doc.Records[key]
		return nil
	})
	if err != nil {
		return kv.Entry{}, err
	}
	if !found {
		return kv.Entry{}, kv.ErrKeyNotFound
	}
	return rec.entry(key), nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	if !strings.HasPrefix(key, s.namespace) {
		return fmt.Errorf("%w: %q", ErrOutsideNamespace, key)
	}

	return s.update(func(doc *Document) (bool, error) {
		now := s.now()
		rec, ok := doc.Records[key]
		if !ok {
			doc.Records[key] = newRecord(value, now)
			return true, nil
		}
		rec.setValue(value)
		rec.UpdatedAt = now
		doc.Records[key] = rec
		return true, nil
	})
}

func (s *Store) Delete(_ context.Context, key string) error {
	found := false
	err := s.update(func(doc *Document) (bool, error) {
		if _, found = doc.Records[key]; !found {
			return false, nil
		}
		delete(doc.Records, key)
		return true, nil
	})
	if err != nil {
		return err
	}
	if !found {
		return kv.ErrKeyNotFound
	}
	return nil
}

// List returns the records whose key starts with prefix, ordered by key.
func (s *Store) List(_ context.Context, prefix string) ([]kv.Entry, error) {
	var entries []kv.Entry
	err := s.view(func(doc *Document) error {
		for key, rec := range doc.Records {
			if strings.HasPrefix(key, prefix) {
				entries = append(entries, rec.entry(key))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b kv.Entry) int { return strings.Compare(a.Key, b.Key) })
	return entries, nil
}

// view runs fn against the current document under a shared lock.
func (s *Store) view(fn func(*Document) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	unlock, err := s.lock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	return fn(&doc)
}

// update runs fn under an exclusive lock and writes the document back when
// fn reports a change. The lock covers one call; a read-modify-write spread
// over Get and Set can still interleave with another process.
func (s *Store) update(fn func(*Document) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	changed, err := fn(&doc)
	if err != nil || !changed {
		return err
	}
	return s.save(doc)
}

// lock takes an flock on a sidecar file next to the history file.
func (s *Store) lock(how int) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	f, err := os.OpenFile(s.path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), how); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("lock %s: %w", s.path, err)
	}

	return func() {
		_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		_ = f.Close()
	}, nil
}

func (s *Store) load() (Document, error) {
	empty := Document{Version: FormatVersion, Records: map[string]Record{}}

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return empty, nil
	case err != nil:
		return Document{}, fmt.Errorf("read %s: %w", s.path, err)
	case len(bytes.TrimSpace(data)) == 0:
		return empty, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if doc.Version > FormatVersion {
		return Document{}, fmt.Errorf("%s has format version %d, this build reads up to %d", s.path, doc.Version, FormatVersion)
	}

	doc.Version = FormatVersion
	if doc.Records == nil {
		doc.Records = map[string]Record{}
	}
	return doc, nil
}

// save replaces the file atomically via a temp file and rename.
func (s *Store) save(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
