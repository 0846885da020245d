package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/hay-kot/neighborly/internal/core/history"
	"github.com/hay-kot/neighborly/internal/core/kv"
)

func steppingClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "history.json"), WithClock(steppingClock()))
}

func TestStore_SetAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	value := `[{"query":"honey","timestamp":1}]`

	if err := store.Set(ctx, history.SearchHistoryKey, value); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entry, err := store.Get(ctx, history.SearchHistoryKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.Key != history.SearchHistoryKey {
		t.Errorf("Key = %q, want %q", entry.Key, history.SearchHistoryKey)
	}
	if entry.Value != value {
		t.Errorf("Value = %q, want %q", entry.Value, value)
	}
}

func TestStore_RejectsKeysOutsideNamespace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Set(ctx, "cart", "[]")
	if !errors.Is(err, ErrOutsideNamespace) {
		t.Fatalf("Set error = %v, want ErrOutsideNamespace", err)
	}

	if _, err := os.Stat(store.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("rejected Set created the history file (stat err = %v)", err)
	}
	if _, err := store.Get(ctx, "cart"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Errorf("Get error = %v, want ErrKeyNotFound", err)
	}
}

func TestStore_LogsAreStoredInline(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, history.ViewedProductsKey, "[ {\"id\": \"7\", \"timestamp\": 2} ]"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, history.SearchHistoryKey, "{broken"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	var doc struct {
		Version int `json:"version"`
		Records map[string]struct {
			Log []map[string]any `json:"log"`
			Raw *string          `json:"raw"`
		} `json:"records"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("history file is not JSON: %v", err)
	}

	if doc.Version != FormatVersion {
		t.Errorf("Version = %d, want %d", doc.Version, FormatVersion)
	}
	viewed := doc.Records[history.ViewedProductsKey]
	if len(viewed.Log) != 1 || viewed.Log[0]["id"] != "7" || viewed.Raw != nil {
		t.Errorf("viewed record not inline: %+v", viewed)
	}
	search := doc.Records[history.SearchHistoryKey]
	if search.Raw == nil || *search.Raw != "{broken" {
		t.Errorf("corrupt value not kept verbatim: %+v", search)
	}

	entry, err := store.Get(ctx, history.ViewedProductsKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.Value != `[{"id":"7","timestamp":2}]` {
		t.Errorf("Value = %q, want compacted log", entry.Value)
	}
}

func TestStore_NonLogValuesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, value := range []string{"null", "42", `"text"`, "", "  [1,2]  "} {
		if err := store.Set(ctx, history.SearchHistoryKey, value); err != nil {
			t.Fatalf("Set(%q) failed: %v", value, err)
		}
		entry, err := store.Get(ctx, history.SearchHistoryKey)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}

		want := value
		if strings.TrimSpace(value) == "[1,2]" {
			want = "[1,2]"
		}
		if entry.Value != want {
			t.Errorf("Value = %q, want %q", entry.Value, want)
		}
	}
}

func TestStore_UpdatePreservesCreatedAt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, history.SearchHistoryKey, "[]"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	first, _ := store.Get(ctx, history.SearchHistoryKey)

	if err := store.Set(ctx, history.SearchHistoryKey, `[{"query":"tea","timestamp":2}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	second, _ := store.Get(ctx, history.SearchHistoryKey)

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want after %v", second.UpdatedAt, first.UpdatedAt)
	}
}

func TestStore_ListOrderedByKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	keys := []string{
		history.ViewedProductsKey,
		history.KeyPrefix + "b",
		history.SearchHistoryKey,
		history.KeyPrefix + "a",
	}
	for _, key := range keys {
		if err := store.Set(ctx, key, "[]"); err != nil {
			t.Fatalf("Set(%q) failed: %v", key, err)
		}
	}

	entries, err := store.List(ctx, history.KeyPrefix)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	got := make([]string, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.Key)
	}
	want := []string{
		history.KeyPrefix + "a",
		history.KeyPrefix + "b",
		history.SearchHistoryKey,
		history.ViewedProductsKey,
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("List order = %v, want %v", got, want)
	}

	only, _ := store.List(ctx, history.SearchHistoryKey)
	if len(only) != 1 {
		t.Errorf("List(%q) returned %d entries, want 1", history.SearchHistoryKey, len(only))
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.Set(ctx, history.SearchHistoryKey, "[]")

	if err := store.Delete(ctx, history.SearchHistoryKey); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, history.SearchHistoryKey); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Errorf("Get after delete error = %v, want ErrKeyNotFound", err)
	}
	if err := store.Delete(ctx, history.SearchHistoryKey); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Errorf("second Delete error = %v, want ErrKeyNotFound", err)
	}
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.json")
	ctx := context.Background()

	if err := New(path).Set(ctx, history.ViewedProductsKey, `[{"id":"1","timestamp":1}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entry, err := New(path).Get(ctx, history.ViewedProductsKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.Value != `[{"id":"1","timestamp":1}]` {
		t.Errorf("Value = %q", entry.Value)
	}
}

func TestStore_HistoryStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	hist := history.New(store, zerolog.Nop())

	hist.AddSearch(ctx, "honey", "Food")
	hist.AddViewed(ctx, "42")

	reopened := history.New(New(store.Path()), zerolog.Nop())
	searches := reopened.SearchHistory(ctx)
	if len(searches) != 1 || searches[0].Query != "honey" || searches[0].Category != "Food" {
		t.Errorf("SearchHistory = %+v", searches)
	}
	viewed := reopened.ViewedProducts(ctx)
	if len(viewed) != 1 || viewed[0].ID != "42" {
		t.Errorf("ViewedProducts = %+v", viewed)
	}
}

func TestStore_ConcurrentWriters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const writers = 10
	const iterations = 20

	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				key := fmt.Sprintf("%sw%d_%d", history.KeyPrefix, id, j)
				if err := store.Set(ctx, key, "[]"); err != nil {
					t.Errorf("Set failed: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	entries, err := store.List(ctx, history.KeyPrefix)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != writers*iterations {
		t.Errorf("got %d entries, want %d", len(entries), writers*iterations)
	}
}

func TestStore_UnreadableFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "corrupt", content: "{invalid json", wantErr: "parse"},
		{name: "newer format", content: `{"version":99,"records":{}}`, wantErr: "format version 99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			ctx := context.Background()
			if err := os.WriteFile(store.Path(), []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write file: %v", err)
			}

			if _, err := store.Get(ctx, history.SearchHistoryKey); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Get error = %v, want %q", err, tt.wantErr)
			}
			if err := store.Set(ctx, history.SearchHistoryKey, "[]"); err == nil {
				t.Error("Set succeeded on an unreadable file")
			}

			data, _ := os.ReadFile(store.Path())
			if string(data) != tt.content {
				t.Error("unreadable file was overwritten")
			}
		})
	}
}

func TestStore_EmptyFileReadsEmpty(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.Path(), nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	entries, err := store.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries from an empty file", len(entries))
	}
}
