package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/neighborly/internal/core/kv"
)

func TestCheckRecord(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  error
	}{
		{name: "searches", key: SearchHistoryKey, value: `[{"query":"honey","timestamp":1,"category":"Food"}]`},
		{name: "empty searches", key: SearchHistoryKey, value: `[]`},
		{name: "viewed", key: ViewedProductsKey, value: `[{"id":"7","timestamp":1}]`},
		{name: "not json", key: SearchHistoryKey, value: `{broken`, want: ErrCorruptRecord},
		{name: "null", key: ViewedProductsKey, value: `null`, want: ErrCorruptRecord},
		{name: "object", key: SearchHistoryKey, value: `{"query":"honey"}`, want: ErrCorruptRecord},
		{name: "numbers", key: SearchHistoryKey, value: `[1,2]`, want: ErrCorruptRecord},
		{name: "wrong element shape", key: SearchHistoryKey, value: `[{"foo":1}]`, want: ErrCorruptRecord},
		{name: "blank query", key: SearchHistoryKey, value: `[{"query":"  ","timestamp":1}]`, want: ErrCorruptRecord},
		{name: "numeric viewed id", key: ViewedProductsKey, value: `[{"id":7,"timestamp":1}]`, want: ErrCorruptRecord},
		{name: "search shape under viewed key", key: ViewedProductsKey, value: `[{"query":"honey","timestamp":1}]`, want: ErrCorruptRecord},
		{name: "unknown key", key: KeyPrefix + "cart", value: `[]`, want: ErrUnknownRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRecord(tt.key, tt.value)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStore_WrongElementShapeReadsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(ctx, SearchHistoryKey, `[{"foo":1}]`))
	require.NoError(t, backend.Set(ctx, ViewedProductsKey, `[1,2]`))

	s := newTestStore(t, backend)

	assert.Empty(t, s.SearchHistory(ctx))
	assert.Empty(t, s.ViewedProducts(ctx))
}
