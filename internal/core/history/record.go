package history

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

var (
	// ErrCorruptRecord is returned for a stored log that does not decode into
	// well-formed entries.
	ErrCorruptRecord = errors.New("corrupt history record")

	// ErrUnknownRecord is returned for a key under KeyPrefix that no log uses.
	ErrUnknownRecord = errors.New("unknown history record")
)

// entry is implemented by the element types of both logs.
type entry interface {
	SearchEntry | ViewedEntry
	valid() bool
}

func (e SearchEntry) valid() bool { return strings.TrimSpace(e.Query) != "" }

func (e ViewedEntry) valid() bool { return strings.TrimSpace(e.ID) != "" }

// decodeRecord parses a stored log. The value must be a JSON array whose
// elements all carry their identity field; anything else, including null, is
// ErrCorruptRecord.
func decodeRecord[T entry](value string) ([]T, error) {
	var entries []T
	if err := json.Unmarshal([]byte(value), &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if entries == nil {
		return nil, fmt.Errorf("%w: not an array", ErrCorruptRecord)
	}

	for i, e := range entries {
		if !e.valid() {
			return nil, fmt.Errorf("%w: entry %d is missing its %s", ErrCorruptRecord, i, identityField[T]())
		}
	}

	return entries, nil
}

func identityField[T entry]() string {
	var zero T
	if _, ok := any(zero).(SearchEntry); ok {
		return "query"
	}
	return "id"
}

// CheckRecord reports whether value is a record the Store can read back for
// key. It returns ErrUnknownRecord for keys outside the two logs and
// ErrCorruptRecord for values the Store would discard.
func CheckRecord(key, value string) error {
	var err error
	switch key {
	case SearchHistoryKey:
		_, err = decodeRecord[SearchEntry](value)
	case ViewedProductsKey:
		_, err = decodeRecord[ViewedEntry](value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownRecord, key)
	}
	return err
}
